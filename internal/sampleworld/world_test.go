package sampleworld

import (
	"slices"
	"sync"
	"testing"

	"github.com/plus3/splitecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldEndToEnd(t *testing.T) {
	w := NewWorld(1024)

	a := w.Spawn()
	require.NoError(t, w.Index.Set(a, Index{Value: 42}))

	b := w.Spawn()
	require.NoError(t, w.Register(b, Index{Value: 0}))
	require.NoError(t, w.Register(b, Name{Value: "B"}))

	assert.Equal(t, []ecs.EntityId{a, b}, slices.Collect(w.Entities.Iter()))

	require.NotNil(t, w.Index.Get(a))
	assert.Equal(t, uint64(42), w.Index.Get(a).Value)
	require.NotNil(t, w.Index.Get(b))
	assert.Equal(t, uint64(0), w.Index.Get(b).Value)
	require.NotNil(t, w.Name.Get(b))
	assert.Equal(t, "B", w.Name.Get(b).Value)
	assert.Nil(t, w.Name.Get(a))
}

func TestWorldTemplateRegistration(t *testing.T) {
	w := NewWorld(16)
	id := w.Spawn()

	require.NoError(t, w.Register(id, Template{Index: &Index{Value: 42}}))

	require.NotNil(t, w.Index.Get(id))
	assert.Equal(t, Index{Value: 42}, *w.Index.Get(id))
	assert.Nil(t, w.Name.Get(id))
	assert.Nil(t, w.Position.Get(id))
	assert.Nil(t, w.Rare.Get(id))
}

func TestWorldTemplateLeavesAbsentSlotsUntouched(t *testing.T) {
	w := NewWorld(16)
	id := w.Spawn()
	require.NoError(t, w.Name.Set(id, Name{Value: "kept"}))

	require.NoError(t, w.Register(id, Template{
		Position: &Position{X: 1, Y: 2},
		RareData: &Rare{Data: 7},
	}))

	assert.Equal(t, Name{Value: "kept"}, *w.Name.Get(id))
	assert.Equal(t, Position{X: 1, Y: 2}, *w.Position.Get(id))
	assert.Equal(t, Rare{Data: 7}, *w.Rare.Get(id))
}

func TestWorldSetAfterDespawn(t *testing.T) {
	w := NewWorld(16)
	a := w.Spawn()
	require.NoError(t, w.Despawn(a))

	assert.ErrorIs(t, w.Index.Set(a, Index{Value: 1}), ecs.ErrNoSuchEntity)
	assert.ErrorIs(t, w.Register(a, Index{Value: 1}), ecs.ErrNoSuchEntity)
	assert.Equal(t, 0, w.Index.Len())
}

func TestWorldTemplateOnDeadEntity(t *testing.T) {
	w := NewWorld(16)
	a := w.Spawn()
	require.NoError(t, w.Despawn(a))

	err := w.Register(a, Template{Index: &Index{Value: 1}, Name: &Name{Value: "a"}})
	assert.ErrorIs(t, err, ecs.ErrNoSuchEntity)
	assert.Equal(t, 0, w.Index.Len())
	assert.Equal(t, 0, w.Name.Len())
}

func TestWorldRegisterMatchesDirectSet(t *testing.T) {
	direct := NewWorld(4)
	viaRegister := NewWorld(4)

	components := []Component{
		Index{Value: 3},
		Name{Value: "n"},
		Position{X: 4, Y: 5},
		Rare{Data: 9},
	}

	d := direct.Spawn()
	r := viaRegister.Spawn()
	require.NoError(t, direct.Index.Set(d, Index{Value: 3}))
	require.NoError(t, direct.Name.Set(d, Name{Value: "n"}))
	require.NoError(t, direct.Position.Set(d, Position{X: 4, Y: 5}))
	require.NoError(t, direct.Rare.Set(d, Rare{Data: 9}))
	for _, c := range components {
		require.NoError(t, viaRegister.Register(r, c))
	}

	assert.Equal(t, direct.Components(d), viaRegister.Components(r))
	assert.Equal(t, components, viaRegister.Components(r))
}

func TestWorldDespawnRemovesComponents(t *testing.T) {
	w := NewWorld(4)
	a := w.Spawn()
	require.NoError(t, w.Register(a, Template{
		Index:    &Index{Value: 1},
		Name:     &Name{Value: "a"},
		Position: &Position{X: 1},
		RareData: &Rare{Data: 1},
	}))

	require.NoError(t, w.Despawn(a))
	assert.ErrorIs(t, w.Despawn(a), ecs.ErrNoSuchEntity)

	assert.Equal(t, 0, w.Index.Len())
	assert.Equal(t, 0, w.Name.Len())
	assert.Equal(t, 0, w.Position.Len())
	assert.Equal(t, 0, w.Rare.Len())

	// The recycled index must not surface the previous owner's data
	b := w.Spawn()
	assert.Equal(t, a.Index(), b.Index())
	assert.Empty(t, w.Components(b))
}

func TestWorldComponentsInSchemaOrder(t *testing.T) {
	w := NewWorld(4)
	id := w.Spawn()

	require.NoError(t, w.Register(id, Rare{Data: 2}))
	require.NoError(t, w.Register(id, Index{Value: 1}))

	assert.Equal(t, []Component{Index{Value: 1}, Rare{Data: 2}}, w.Components(id))
	assert.Nil(t, w.Components(ecs.NewEntityId(5, 3)))
}

func TestWorldTemplateOf(t *testing.T) {
	w := NewWorld(4)
	id := w.Spawn()
	require.NoError(t, w.Register(id, Template{
		Index:    &Index{Value: 8},
		RareData: &Rare{Data: 3},
	}))

	tmpl, err := w.TemplateOf(id)
	require.NoError(t, err)
	assert.Equal(t, Template{Index: &Index{Value: 8}, RareData: &Rare{Data: 3}}, tmpl)

	// The template holds copies, not references into the storages
	tmpl.Index.Value = 100
	assert.Equal(t, uint64(8), w.Index.Get(id).Value)

	clone := w.Spawn()
	require.NoError(t, w.Register(clone, tmpl))
	assert.Equal(t, []Component{Index{Value: 100}, Rare{Data: 3}}, w.Components(clone))

	require.NoError(t, w.Despawn(id))
	_, err = w.TemplateOf(id)
	assert.ErrorIs(t, err, ecs.ErrNoSuchEntity)
}

func TestWorldClear(t *testing.T) {
	w := NewWorld(4)
	ids := []ecs.EntityId{w.Spawn(), w.Spawn(), w.Spawn()}
	for i, id := range ids {
		require.NoError(t, w.Register(id, Template{
			Index: &Index{Value: uint64(i)},
			Name:  &Name{Value: "x"},
		}))
	}

	w.Clear()

	assert.Equal(t, 0, w.Entities.Len())
	assert.Equal(t, 0, w.Index.Len())
	assert.Equal(t, 0, w.Name.Len())
	for _, id := range ids {
		assert.False(t, w.Entities.IsAlive(id))
		assert.Nil(t, w.Index.Get(id))
	}
}

func TestWorldDisjointStoragesConcurrently(t *testing.T) {
	const count = 512

	w := NewWorld(count)
	ids := make([]ecs.EntityId, count)
	for i := range ids {
		ids[i] = w.Spawn()
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		for i, id := range ids {
			assert.NoError(t, w.Index.Set(id, Index{Value: uint64(i)}))
		}
	}()
	go func() {
		defer wg.Done()
		for _, id := range ids[:count/4] {
			assert.NoError(t, w.Name.Set(id, Name{Value: id.String()}))
		}
	}()
	go func() {
		defer wg.Done()
		for i, id := range ids {
			assert.NoError(t, w.Position.Set(id, Position{X: float32(i), Y: float32(-i)}))
		}
	}()
	go func() {
		defer wg.Done()
		for id := range w.Entities.Iter() {
			_ = w.Entities.IsAlive(id)
		}
	}()
	wg.Wait()

	assert.Equal(t, count, w.Index.Len())
	assert.Equal(t, count/4, w.Name.Len())
	assert.Equal(t, count, w.Position.Len())
	assert.Equal(t, 0, w.Rare.Len())
	for i, id := range ids {
		assert.Equal(t, uint64(i), w.Index.Get(id).Value)
	}
}

func TestWorldTemplateRacesDespawn(t *testing.T) {
	const count = 256

	w := NewWorld(count)
	ids := make([]ecs.EntityId, count)
	for i := range ids {
		ids[i] = w.Spawn()
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i, id := range ids {
			_ = w.Register(id, Template{
				Index:    &Index{Value: uint64(i)},
				Position: &Position{X: float32(i)},
			})
		}
	}()
	go func() {
		defer wg.Done()
		for _, id := range ids {
			_ = w.Entities.Despawn(id)
		}
	}()
	wg.Wait()

	// Every template either applied fully or not at all
	for _, id := range ids {
		assert.Equal(t, w.Index.GetUnchecked(id) != nil, w.Position.GetUnchecked(id) != nil, id.String())
	}
}

type labelledIndex struct {
	Index
	Label string
}

func TestWorldRegisterEmbeddedComponent(t *testing.T) {
	w := NewWorld(4)
	id := w.Spawn()

	require.NoError(t, w.Register(id, labelledIndex{Index: Index{Value: 7}, Label: "dropped"}))

	assert.Equal(t, []Component{Index{Value: 7}}, w.Components(id))
}

func TestWorldRegisterNilPanics(t *testing.T) {
	w := NewWorld(4)
	id := w.Spawn()

	assert.Panics(t, func() { _ = w.Register(id, nil) })
	assert.Panics(t, func() { _ = w.Register(id, (*Name)(nil)) })
	assert.Nil(t, w.Name.Get(id))
}
