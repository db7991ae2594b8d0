package sampler

import (
	"math/rand"
	"sort"

	"github.com/gamescope/gamescope-collector/internal/domain"
)

// shuffled returns a shuffled copy of the candidate IDs. The input is left
// untouched so callers can reuse it.
func shuffled(ids []int64, rng *rand.Rand) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// rankTop orders records by ownership proxy descending, breaking ties by
// total review count descending, and truncates to n. Records missing either
// signal rank as zero. The sort is stable so equal-key records keep their
// scan order.
func rankTop(records []domain.GameRecord, n int) []domain.GameRecord {
	sort.SliceStable(records, func(i, j int) bool {
		oi, oj := records[i].OwnersOrZero(), records[j].OwnersOrZero()
		if oi != oj {
			return oi > oj
		}
		return records[i].ReviewsOrZero() > records[j].ReviewsOrZero()
	})
	if len(records) > n {
		records = records[:n]
	}
	return records
}
