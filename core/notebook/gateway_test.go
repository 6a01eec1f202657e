package notebook

import (
	"testing"

	"github.com/trezcool/mazoezi/core"
)

func TestSharedGatewayLaunchURL(t *testing.T) {
	gw := NewSharedGateway(core.JupyterConfig{
		Scheme: "http",
		Host:   "jupyterlab-shared",
		Port:   "8888",
		Token:  "training2024",
	})

	want := "http://jupyterlab-shared:8888/lab?token=training2024"
	if got := gw.LaunchURL(); got != want {
		t.Errorf("LaunchURL() = %q; want %q", got, want)
	}

	// same URL for every call; the environment is shared
	if first, second := gw.LaunchURL(), gw.LaunchURL(); first != second {
		t.Errorf("LaunchURL() not stable: %q != %q", first, second)
	}
}
