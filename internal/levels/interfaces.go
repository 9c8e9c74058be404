package levels

import "context"

type Loader interface {
	LoadPacks(ctx context.Context, root string) ([]Pack, error)
	Builtin() (Pack, error)
	FindPack(packs []Pack, packID string) (Pack, error)
}
