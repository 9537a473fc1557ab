package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"migctl/internal/migrate"
	"migctl/internal/model"
)

func TestIdentity(t *testing.T) {
	t.Parallel()

	assert.True(t, Identity(4001).OK)
	for _, id := range []model.ThreadID{0, -1} {
		check := Identity(id)
		assert.False(t, check.OK)
		assert.Equal(t, CauseIdentityLost, check.Cause)
	}
}

func TestIdentityRoundTrip(t *testing.T) {
	t.Parallel()

	assert.True(t, IdentityRoundTrip(4001, 4001).OK)

	check := IdentityRoundTrip(4001, 4002)
	assert.False(t, check.OK)
	assert.Equal(t, CauseIdentityMismatch, check.Cause)

	// A lost identity is reported as lost, not as a mismatch.
	check = IdentityRoundTrip(4001, -1)
	assert.Equal(t, CauseIdentityLost, check.Cause)
}

func TestAtNode(t *testing.T) {
	t.Parallel()

	assert.True(t, AtNode(0, 0).OK)

	check := AtNode(1, 0)
	assert.False(t, check.OK)
	assert.Equal(t, CauseWrongNode, check.Cause)
	assert.Contains(t, check.Detail, "node-0")
	assert.Contains(t, check.Detail, "node-1")
}

func TestEndpointsOnline(t *testing.T) {
	t.Parallel()

	online := model.Node{ID: 0, Liveness: model.Online}
	offline := model.Node{ID: 1, Liveness: model.Offline}

	assert.True(t, EndpointsOnline(online, model.Node{ID: 1, Liveness: model.Online}).OK)

	check := EndpointsOnline(online, offline)
	assert.Equal(t, CauseNodeOffline, check.Cause)
	assert.Contains(t, check.Detail, "node-1")

	check = EndpointsOnline(offline, online)
	assert.Equal(t, CauseNodeOffline, check.Cause)
	assert.Contains(t, check.Detail, "node-1")
}

func TestUnreachable(t *testing.T) {
	t.Parallel()

	check := Unreachable(errors.New("table gone"))
	assert.False(t, check.OK)
	assert.Equal(t, CauseRegistryUnreachable, check.Cause)
}

func TestHop(t *testing.T) {
	t.Parallel()

	assert.True(t, Hop(migrate.Outcome{Class: migrate.Success, Dest: 1}).OK)

	check := Hop(migrate.Outcome{Class: migrate.DestinationOffline, Dest: 1})
	assert.False(t, check.OK)
	assert.Equal(t, CauseMigrationFailed, check.Cause)
	assert.Contains(t, check.Detail, "offline")
}
