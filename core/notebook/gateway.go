package notebook

import (
	"net/url"

	"github.com/trezcool/mazoezi/core"
)

type (
	// Gateway produces the URL a student uses to reach their notebook
	// environment. It does not provision anything; readiness of the backing
	// service is its own concern.
	Gateway interface {
		LaunchURL() string
	}

	// sharedGateway points every student at one shared JupyterLab instance,
	// authenticated by one process-wide token. Per-user provisioning is
	// deliberately out of scope.
	sharedGateway struct {
		launchURL string
	}
)

var _ Gateway = (*sharedGateway)(nil)

func NewSharedGateway(conf core.JupyterConfig) Gateway {
	q := make(url.Values)
	q.Set("token", conf.Token)
	u := url.URL{
		Scheme:   conf.Scheme,
		Host:     conf.Host + ":" + conf.Port,
		Path:     "/lab",
		RawQuery: q.Encode(),
	}
	return &sharedGateway{launchURL: u.String()}
}

func (gw *sharedGateway) LaunchURL() string {
	return gw.launchURL
}
