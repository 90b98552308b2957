package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nmehta6/awardsearch/log"
)

// searchWindow runs the expanded flexible-date search: each provider
// walks the candidate dates sequentially (rate-limit friendly) while the
// two providers stay concurrent with each other. The second return is
// true when every provider call failed.
func (o *Orchestrator) searchWindow(ctx context.Context, req Request, window int) ([]Offer, bool) {
	offsets := windowOffsets(window)
	limit := o.flexibleLimit()
	today := o.now().Truncate(24 * time.Hour)

	type windowResult struct {
		offers    []Offer
		succeeded bool
	}

	runWindow := func(source Source, p Provider) windowResult {
		var res windowResult
		for _, offset := range offsets {
			shifted := req.shiftDates(offset)
			// Shifting earlier must not produce a past departure.
			if shifted.DepartDate.Before(today) {
				continue
			}
			out := runProvider(ctx, source, p, shifted, limit)
			if out.err != nil {
				continue
			}
			res.succeeded = true
			for _, offer := range out.offers {
				offer.DateOffsetDays = offset
				offer.DateOffsetLabel = offsetLabel(offset)
				res.offers = append(res.offers, offer)
			}
		}
		return res
	}

	awardCh := make(chan windowResult, 1)
	go func() {
		awardCh <- runWindow(SourceAward, o.Award)
	}()

	var cash windowResult
	cashSkipped := req.AwardOnly || o.Cash == nil
	if !cashSkipped {
		cashCh := make(chan windowResult, 1)
		go func() {
			cashCh <- runWindow(SourceCash, o.Cash)
		}()
		cash = <-cashCh
	}
	award := <-awardCh

	offers := append(award.offers, cash.offers...)
	// A skipped cash side is neutral: the verdict rests on the providers
	// that actually ran.
	allFailed := !award.succeeded && (cashSkipped || !cash.succeeded)
	log.Debugf(ctx, "flexible window produced %d offers across %d candidate dates", len(offers), len(offsets))
	return offers, allFailed
}

// windowOffsets yields candidate day shifts ordered by distance from the
// original date: 0, -1, +1, -2, +2, ...
func windowOffsets(window int) []int {
	offsets := []int{0}
	for d := 1; d <= window; d++ {
		offsets = append(offsets, -d, d)
	}
	return offsets
}

// offsetLabel is the human annotation rendered next to flexible results.
func offsetLabel(days int) string {
	switch {
	case days == 0:
		return "Original date"
	case days == -1:
		return "1 day earlier"
	case days == 1:
		return "1 day later"
	case days < 0:
		return fmt.Sprintf("%d days earlier", -days)
	default:
		return fmt.Sprintf("%d days later", days)
	}
}

// rankFlexible sorts merged cross-date offers ascending by normalized
// price, unparseable prices last, and truncates to the cap.
func rankFlexible(offers []Offer, limit int) []Offer {
	ranked := make([]Offer, len(offers))
	copy(ranked, offers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].priceSortKey() < ranked[j].priceSortKey()
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
