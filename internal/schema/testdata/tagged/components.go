//go:build extra

package tagged

type Extra struct {
	On bool
}

type schema struct {
	Extra Extra
}
