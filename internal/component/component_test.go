package component

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wtengine/wte/internal/core/ecs"
	"github.com/wtengine/wte/internal/core/message"
)

func TestTeamClamp(t *testing.T) {
	require.Equal(t, uint8(2), NewTeam(2).Value)
	require.Equal(t, MaxTeam, NewTeam(9).Value)

	team := NewTeam(0)
	team.SetTeam(200)
	require.Equal(t, MaxTeam, team.Value)

	require.Equal(t, MaxTeam, NewHitbox(1, 1, 7).Team)
	require.True(t, NewHitbox(1, 1, 0).Solid)
	require.False(t, NewHitboxSolid(1, 1, 0, false).Solid)
}

func TestOverlaps(t *testing.T) {
	box := NewHitbox(10, 10, 0)
	cases := []struct {
		name string
		b    Location
		want bool
	}{
		{"overlap", Location{X: 5, Y: 5}, true},
		{"touching edge", Location{X: 10, Y: 0}, false},
		{"apart", Location{X: 30, Y: 30}, false},
		{"contained", Location{X: 1, Y: 1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Overlaps(Location{}, box, tc.b, box))
		})
	}
}

func TestKindsAreDistinct(t *testing.T) {
	all := []ecs.Component{
		Name{}, Enabled{}, Visible{}, Location{}, Team{}, Hitbox{}, Health{},
		Damage{}, Direction{}, Velocity{}, Motion{}, AI{}, Dispatcher{},
		Sprite{}, Overlay{}, Background{},
	}
	seen := map[ecs.Kind]bool{}
	for _, c := range all {
		require.False(t, seen[c.Kind()], KindString(c.Kind()))
		seen[c.Kind()] = true
		require.NotContains(t, KindString(c.Kind()), "kind(")
	}
	require.Equal(t, "kind(999)", KindString(999))
}

func TestAIRunSelectsBehavior(t *testing.T) {
	var ran []string
	ai := AI{
		Enabled: BehaviorFunc(func(ecs.EntityID, *ecs.World, *message.Bus, int64) {
			ran = append(ran, "enabled")
		}),
		Disabled: BehaviorFunc(func(ecs.EntityID, *ecs.World, *message.Bus, int64) {
			ran = append(ran, "disabled")
		}),
	}
	ai.Run(true, 0, nil, nil, 0)
	ai.Run(false, 0, nil, nil, 0)
	require.Equal(t, []string{"enabled", "disabled"}, ran)

	// Missing behaviors idle.
	AI{}.Run(true, 0, nil, nil, 0)
	NewAI(nil).Run(false, 0, nil, nil, 0)
}

func TestNameLookup(t *testing.T) {
	w := ecs.NewWorld()
	a, _ := w.CreateEntity()
	b, _ := w.CreateEntity()
	require.NoError(t, ecs.AddComponent(w, a, Name{Value: "player"}))
	require.NoError(t, ecs.AddComponent(w, b, Enabled{On: true}))

	require.Equal(t, "player", NameOf(w, a))
	require.Equal(t, "", NameOf(w, b))

	id, ok := FindByName(w, "player")
	require.True(t, ok)
	require.Equal(t, a, id)
	_, ok = FindByName(w, "nobody")
	require.False(t, ok)

	require.False(t, IsEnabled(w, a))
	require.True(t, IsEnabled(w, b))
}
