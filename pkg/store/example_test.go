package store_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/streamwall/pkg/grid"
	"github.com/matzehuels/streamwall/pkg/store"
)

func ExampleLayouts_Migrate() {
	ctx := context.Background()
	backend := store.NewMemoryStore()

	// A layout saved before layouts were kept per mode.
	_ = backend.Set(ctx, "evening", []byte(`[{"id":"twitch:shroud","x":0,"y":0,"w":2,"h":2}]`), 0)

	layouts := store.NewLayouts(backend, nil)
	l, ok := layouts.Migrate(ctx, "evening", grid.ModeDesktop)
	fmt.Println(ok, l[0].ID, l[0].W, l[0].H)
	fmt.Println(backend.Keys())
	// Output:
	// true twitch:shroud 2 2
	// [evening_desktop]
}
