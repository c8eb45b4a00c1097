package cmd

import "testing"

func TestCommandsRegistered(t *testing.T) {
	found := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}

	for _, name := range []string{"serve", "recommend", "version"} {
		if !found[name] {
			t.Fatalf("command %q not registered", name)
		}
	}
}

func TestServeAddressFlag(t *testing.T) {
	flag := serveCmd.Flags().Lookup("address")
	if flag == nil {
		t.Fatalf("serve is missing the address flag")
	}
	if flag.Shorthand != "a" {
		t.Fatalf("unexpected shorthand %q", flag.Shorthand)
	}
}
