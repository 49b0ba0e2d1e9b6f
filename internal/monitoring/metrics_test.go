package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second Register failed: %v", err)
	}

	PostsCreated.Inc()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	found := false
	for _, mf := range families {
		if mf.GetName() == "yatube_posts_created_total" {
			found = true
			if mf.GetMetric()[0].GetCounter().GetValue() < 1 {
				t.Errorf("counter not incremented")
			}
		}
	}
	if !found {
		t.Error("yatube_posts_created_total not gathered")
	}
}
