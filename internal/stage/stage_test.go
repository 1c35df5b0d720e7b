package stage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLoadAndLookups(t *testing.T) {
	reg := NewRegistry(DefaultSource())
	require.NoError(t, reg.Load(context.Background()))

	assert.False(t, reg.Degraded())
	assert.Equal(t, "Review", reg.LabelOf("review"))
	assert.Equal(t, "214", reg.ColorOf("review"))

	order, ok := reg.OrderOf("submitted")
	require.True(t, ok)
	assert.Equal(t, 3, order)

	_, ok = reg.OrderOf("limbo")
	assert.False(t, ok)
	assert.Equal(t, "limbo", reg.LabelOf("limbo"))
	assert.Equal(t, NeutralColor, reg.ColorOf("limbo"))
}

func TestRegistryStagesAreOrdered(t *testing.T) {
	src := &StaticSource{StageList: []Stage{
		{Key: "c", Order: 3},
		{Key: "a", Order: 1},
		{Key: "b", Order: 2},
	}}
	reg := NewRegistry(src)
	require.NoError(t, reg.Load(context.Background()))

	var keys []string
	for _, s := range reg.Stages() {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestRegistryDegradesWhenSourceUnreachable(t *testing.T) {
	src := &StaticSource{Err: errors.New("connection refused")}
	reg := NewRegistry(src)
	require.NoError(t, reg.Load(context.Background(), "intake", "review", "done"))

	assert.True(t, reg.Degraded())
	assert.Len(t, reg.Stages(), 3)
	assert.Equal(t, "intake", reg.LabelOf("intake")) // identity label
	assert.Equal(t, NeutralColor, reg.ColorOf("review"))

	order, ok := reg.OrderOf("done")
	require.True(t, ok)
	assert.Equal(t, 3, order)
}

func TestRefreshKeepsCacheOnFailure(t *testing.T) {
	src := &StaticSource{StageList: DefaultStages()}
	reg := NewRegistry(src)
	require.NoError(t, reg.Load(context.Background()))

	src.Err = errors.New("temporarily unavailable")
	err := reg.Refresh(context.Background())
	require.Error(t, err)

	// The previous cache stays intact.
	assert.False(t, reg.Degraded())
	assert.Equal(t, "Review", reg.LabelOf("review"))
}

func TestRefreshPicksUpNewStages(t *testing.T) {
	src := &StaticSource{StageList: DefaultStages()}
	reg := NewRegistry(src)
	require.NoError(t, reg.Load(context.Background()))

	src.StageList = append(DefaultStages(), Stage{Key: "qa", Label: "QA", Order: 10})
	require.NoError(t, reg.Refresh(context.Background()))
	assert.Equal(t, "QA", reg.LabelOf("qa"))
}

func TestValidateRejectsDuplicateKeys(t *testing.T) {
	src := &StaticSource{StageList: []Stage{
		{Key: "a", Order: 1},
		{Key: "a", Order: 2},
	}}
	reg := NewRegistry(src)
	err := reg.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate stage key")
}

func TestStatusesOf(t *testing.T) {
	reg := NewRegistry(DefaultSource())
	require.NoError(t, reg.Load(context.Background()))

	statuses, err := reg.StatusesOf(context.Background(), "review")
	require.NoError(t, err)
	assert.Equal(t, []string{"in-review", "changes-requested"}, statuses)
}
