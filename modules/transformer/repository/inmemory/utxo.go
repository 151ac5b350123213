package inmemory

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/samber/lo"
)

type outPoint struct {
	txId  omniverse.TxId
	index uint32
}

func outPointOf(u *entity.UTXO) outPoint {
	return outPoint{txId: u.TxId, index: u.Index}
}

func (r *Repository) GetUTXOs(ctx context.Context, owner omniverse.Address, assetId omniverse.AssetId) ([]*entity.UTXO, error) {
	var result []*entity.UTXO
	r.view(func(s *state) {
		for _, u := range s.utxos {
			if u.Owner == owner && u.AssetId == assetId {
				result = append(result, lo.ToPtr(*u))
			}
		}
	})
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Amount.Cmp(result[j].Amount) < 0
	})
	return result, nil
}

func (r *Repository) CreateUTXOs(ctx context.Context, utxos []*entity.UTXO) error {
	return r.update(func(s *state) error {
		existing := make(map[outPoint]struct{}, len(s.utxos)+len(utxos))
		for _, u := range s.utxos {
			existing[outPointOf(u)] = struct{}{}
		}
		for _, u := range utxos {
			key := outPointOf(u)
			if _, ok := existing[key]; ok {
				return errors.Wrapf(errs.Conflict, "utxo %s:%d already exists", u.TxId, u.Index)
			}
			existing[key] = struct{}{}
		}
		for _, u := range utxos {
			s.utxos = append(s.utxos, lo.ToPtr(*u))
		}
		return nil
	})
}

func (r *Repository) DeleteUTXOs(ctx context.Context, utxos []*entity.UTXO) error {
	return r.update(func(s *state) error {
		spent := make(map[outPoint]struct{}, len(utxos))
		for _, u := range utxos {
			spent[outPointOf(u)] = struct{}{}
		}
		remaining := make([]*entity.UTXO, 0, len(s.utxos))
		for _, u := range s.utxos {
			if _, ok := spent[outPointOf(u)]; ok {
				delete(spent, outPointOf(u))
				continue
			}
			remaining = append(remaining, u)
		}
		if len(spent) > 0 {
			return errors.Wrapf(errs.NotFound, "%d utxos not found", len(spent))
		}
		s.utxos = remaining
		return nil
	})
}
