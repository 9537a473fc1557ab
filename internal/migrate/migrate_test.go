package migrate

import (
	"testing"

	"migctl/internal/model"
	"migctl/internal/platform"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		code int
		want Class
	}{
		{"success", platform.StatusOK, Success},
		{"einval", platform.CodeInvalidDestination, InvalidDestination},
		{"eagain", platform.CodeDestinationOffline, DestinationOffline},
		{"ebusy", platform.CodeAlreadyAtDestination, AlreadyAtDestination},
		{"unclassified", -99, OtherFailure},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := Classify(1, tc.code)
			if out.Class != tc.want {
				t.Fatalf("class=%v want %v", out.Class, tc.want)
			}
			if out.OK() != (tc.want == Success) {
				t.Fatalf("OK()=%v", out.OK())
			}
			if tc.want == OtherFailure && out.Code != tc.code {
				t.Fatalf("raw code not preserved: %d", out.Code)
			}
		})
	}
}

func TestClient_MigrateClassifies(t *testing.T) {
	t.Parallel()

	sim := platform.NewSim(platform.TwoNodes())
	sim.SetLiveness(1, model.Offline)
	thread, _ := sim.Attach()
	client := NewClient(thread)

	out := client.Migrate(1)
	if out.Class != DestinationOffline {
		t.Fatalf("class=%v", out.Class)
	}
	out = client.Migrate(0)
	if out.Class != AlreadyAtDestination {
		t.Fatalf("class=%v", out.Class)
	}
	out = client.Migrate(model.NodeID(99))
	if out.Class != InvalidDestination {
		t.Fatalf("class=%v", out.Class)
	}
}

func TestClient_ProposedDestination(t *testing.T) {
	t.Parallel()

	sim := platform.NewSim(platform.TwoNodes())
	thread, _ := sim.Attach()
	client := NewClient(thread)

	out := client.Migrate(platform.ProposedDestination)
	if !out.OK() {
		t.Fatalf("outcome=%v", out)
	}
	at, _ := thread.Node()
	if at != 1 {
		t.Fatalf("at=%d", at)
	}
}
