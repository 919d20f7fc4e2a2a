package agent

import (
	"context"
	"testing"

	"github.com/namanag97/venomqa-sub007/pkg/core"
	"github.com/namanag97/venomqa-sub007/pkg/graph"
)

func stubAction(name string) *core.Action {
	return core.NewSimpleAction(name, func(ctx context.Context, api core.APIClient) core.ActionResult {
		return core.ActionResult{Success: true}
	})
}

func TestBFSOrdersByNotifyOrder(t *testing.T) {
	s1 := &core.State{ID: "s_1"}
	s2 := &core.State{ID: "s_2"}
	a1, a2 := stubAction("a1"), stubAction("a2")

	strat := NewBFS()
	strat.Seed(s1, []*core.Action{a1})
	strat.Notify(s2, []*core.Action{a2})

	g := graph.New(a1, a2)

	sid, aname, ok := strat.Next(g)
	if !ok || sid != "s_1" || aname != "a1" {
		t.Fatalf("expected (s_1,a1) first, got (%s,%s,%v)", sid, aname, ok)
	}
	sid, aname, ok = strat.Next(g)
	if !ok || sid != "s_2" || aname != "a2" {
		t.Fatalf("expected (s_2,a2) second, got (%s,%s,%v)", sid, aname, ok)
	}
	if _, _, ok = strat.Next(g); ok {
		t.Fatalf("expected queue to be drained")
	}
}

func TestDFSOrdersLastIn(t *testing.T) {
	s1 := &core.State{ID: "s_1"}
	s2 := &core.State{ID: "s_2"}
	a1, a2 := stubAction("a1"), stubAction("a2")

	strat := NewDFS()
	strat.Seed(s1, []*core.Action{a1})
	strat.Notify(s2, []*core.Action{a2})

	g := graph.New(a1, a2)

	sid, aname, ok := strat.Next(g)
	if !ok || sid != "s_2" || aname != "a2" {
		t.Fatalf("expected (s_2,a2) first (LIFO), got (%s,%s,%v)", sid, aname, ok)
	}
	sid, aname, ok = strat.Next(g)
	if !ok || sid != "s_1" || aname != "a1" {
		t.Fatalf("expected (s_1,a1) second, got (%s,%s,%v)", sid, aname, ok)
	}
}

func TestBFSSkipsAlreadyExplored(t *testing.T) {
	s1 := &core.State{ID: "s_1"}
	a1 := stubAction("a1")
	g := graph.New(a1)

	result := core.FromResponse(&core.Request{Method: "GET", URL: "/"}, &core.Response{Status: 200}, 0)
	g.AddTransition(core.NewTransition("s_1", "a1", "s_2", result, nil))

	strat := NewBFS()
	strat.Seed(s1, []*core.Action{a1})

	if _, _, ok := strat.Next(g); ok {
		t.Fatalf("expected an already-explored pair to be skipped, not returned")
	}
}

func TestRandomIsDeterministicUnderFixedSeed(t *testing.T) {
	s1 := &core.State{ID: "s_1"}
	actions := []*core.Action{stubAction("a1"), stubAction("a2"), stubAction("a3")}
	g := graph.New(actions...)

	run := func() []string {
		strat := NewRandom(42)
		strat.Seed(s1, actions)
		var order []string
		for {
			_, aname, ok := strat.Next(g)
			if !ok {
				break
			}
			order = append(order, aname)
		}
		return order
	}

	first, second := run(), run()
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected all 3 pairs drained both runs, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected identical order under the same seed, got %v vs %v", first, second)
		}
	}
}

func TestWeightedFavorsHigherWeight(t *testing.T) {
	s1 := &core.State{ID: "s_1"}
	heavy, light := stubAction("heavy"), stubAction("light")
	g := graph.New(heavy, light)

	counts := map[string]int{}
	for i := 0; i < 200; i++ {
		strat := NewWeighted(map[string]float64{"heavy": 99, "light": 1}, int64(i))
		strat.Seed(s1, []*core.Action{heavy, light})
		_, aname, _ := strat.Next(g)
		counts[aname]++
	}
	if counts["heavy"] <= counts["light"] {
		t.Fatalf("expected heavy to be picked far more often, got %v", counts)
	}
}

func TestFromNameBuildsEachStrategy(t *testing.T) {
	for _, name := range []string{"bfs", "dfs", "random", "weighted", "coverage", ""} {
		if _, err := FromName(name, 1, nil); err != nil {
			t.Errorf("FromName(%q): unexpected error: %v", name, err)
		}
	}
}

func TestFromNameRejectsUnknown(t *testing.T) {
	if _, err := FromName("quantum", 1, nil); err == nil {
		t.Fatal("expected an error for an unknown strategy name")
	}
}

func TestCoverageGuidedPrefersLeastCalledAction(t *testing.T) {
	s1 := &core.State{ID: "s_1"}
	frequent, rare := stubAction("frequent"), stubAction("rare")
	g := graph.New(frequent, rare)

	result := core.FromResponse(&core.Request{Method: "GET", URL: "/"}, &core.Response{Status: 200}, 0)
	g.AddTransition(core.NewTransition("s_a", "frequent", "s_b", result, nil))
	g.AddTransition(core.NewTransition("s_b", "frequent", "s_c", result, nil))

	strat := NewCoverageGuided()
	strat.Seed(s1, []*core.Action{frequent, rare})

	_, aname, ok := strat.Next(g)
	if !ok || aname != "rare" {
		t.Fatalf("expected the less-called action to be preferred, got %q", aname)
	}
}
