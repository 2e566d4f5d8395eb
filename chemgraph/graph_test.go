package chemgraph

import (
	"reflect"
	"testing"
)

func TestFragments(Te *testing.T) {
	//0-1-2 3-4 5 (isolated), plus junk bonds that must be ignored
	T := New(6, [][2]int{{0, 1}, {1, 2}, {4, 3}, {2, 2}, {5, 9}})
	got := T.Fragments()
	want := [][]int{{0, 1, 2}, {3, 4}, {5}}
	if !reflect.DeepEqual(got, want) {
		Te.Errorf("got %v, want %v", got, want)
	}
	if f := New(0, nil).Fragments(); len(f) != 0 {
		Te.Errorf("an empty graph has no fragments, got %v", f)
	}
}
