// Package analytics aggregates already-fetched events and clients into
// dashboard reports. It does no I/O of its own.
package analytics

import (
	"sort"
	"time"

	"pingodeleite/internal/models"
	"pingodeleite/internal/pricing"
)

const week = 7 * 24 * time.Hour

// ItemCount is a tally entry for a balloon kind.
type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// WeekBucket holds projected revenue for one 7-day window ahead of now.
type WeekBucket struct {
	Week    int     `json:"week"`
	Start   string  `json:"start"`
	Revenue float64 `json:"revenue"`
}

// TopClient is the client with the highest summed event revenue.
type TopClient struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// Materials projects what must be on hand for events in the next 28 days.
type Materials struct {
	DomesticMeters       float64     `json:"nationalBalloons"`
	ImportedMeters       float64     `json:"importedBalloons"`
	TotalMeters          float64     `json:"totalRegularBalloons"`
	ShineMeters          float64     `json:"shine"`
	SpecialBalloons      []ItemCount `json:"specialBalloonsList"`
	TotalSpecialBalloons int         `json:"totalSpecialBalloons"`
}

// Report is the full dashboard aggregate.
type Report struct {
	MostRequestedItem        ItemCount     `json:"mostRequestedItem"`
	MostRequestedSpecialItem ItemCount     `json:"mostRequestedSpecialItem"`
	CheapestEvent            *models.Event `json:"cheapestEvent"`
	MostExpensiveEvent       *models.Event `json:"mostExpensiveEvent"`
	TopClient                TopClient     `json:"topClient"`
	ItemsNeeded              Materials     `json:"itemsNeeded"`
}

// RevenueProjection buckets future events into four 7-day windows offset from
// now and sums precoTotal per window.
func RevenueProjection(events []models.Event, now time.Time) []WeekBucket {
	buckets := make([]WeekBucket, 4)
	for i := range buckets {
		buckets[i] = WeekBucket{
			Week:  i + 1,
			Start: now.Add(time.Duration(i) * week).Format("2006-01-02"),
		}
	}
	for _, e := range events {
		t, ok := e.When()
		if !ok || t.Before(now) {
			continue
		}
		idx := int(t.Sub(now) / week)
		if idx < 4 {
			buckets[idx].Revenue += e.TotalPrice
		}
	}
	return buckets
}

// tally counts occurrences keyed by name, remembering first-encountered
// order so ties resolve deterministically.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: map[string]int{}}
}

func (t *tally) add(name string, n int) {
	if _, seen := t.counts[name]; !seen {
		t.order = append(t.order, name)
	}
	t.counts[name] += n
}

func (t *tally) max() ItemCount {
	best := ItemCount{Name: "Nenhum"}
	for _, name := range t.order {
		if t.counts[name] > best.Count {
			best = ItemCount{Name: name, Count: t.counts[name]}
		}
	}
	return best
}

func (t *tally) sorted() []ItemCount {
	out := make([]ItemCount, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, ItemCount{Name: name, Count: t.counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Calculate builds the dashboard report. Regular balloons are tallied once
// per event, special balloons are weighted by quantity. Min/max and top-client
// ties resolve to the first-encountered element in slice order.
func Calculate(events []models.Event, clients []models.Client, now time.Time) Report {
	items := newTally()
	specials := newTally()

	var cheapest, dearest *models.Event
	clientRevenue := newTallyF()

	for i := range events {
		e := &events[i]

		items.add(e.Balloons.Nationality+" "+e.Balloons.Customization, 1)
		for _, sb := range e.SpecialBalloons {
			specials.add(sb.Type+" "+sb.Size, sb.Quantity)
		}

		if cheapest == nil || e.TotalPrice < cheapest.TotalPrice {
			cheapest = e
		}
		if dearest == nil || e.TotalPrice > dearest.TotalPrice {
			dearest = e
		}

		clientRevenue.add(e.ClientID, e.TotalPrice)
	}

	top := TopClient{Name: "Nenhum"}
	if id, revenue, ok := clientRevenue.max(); ok {
		top = TopClient{ID: id, Name: "Cliente Desconhecido", Revenue: revenue}
		for _, c := range clients {
			if c.ID == id {
				top.Name = c.Name
				break
			}
		}
	}

	return Report{
		MostRequestedItem:        items.max(),
		MostRequestedSpecialItem: specials.max(),
		CheapestEvent:            cheapest,
		MostExpensiveEvent:       dearest,
		TopClient:                top,
		ItemsNeeded:              materialsNeeded(events, now),
	}
}

// materialsNeeded sums meters by origin, shine meters, and special-balloon
// quantities for events dated within the next 28 days.
func materialsNeeded(events []models.Event, now time.Time) Materials {
	horizon := now.Add(28 * 24 * time.Hour)
	m := Materials{SpecialBalloons: []ItemCount{}}
	specials := newTally()

	for _, e := range events {
		t, ok := e.When()
		if !ok || t.Before(now) || t.After(horizon) {
			continue
		}
		switch e.Balloons.Nationality {
		case pricing.Domestic:
			m.DomesticMeters += e.Balloons.Meters
		case pricing.Imported:
			m.ImportedMeters += e.Balloons.Meters
		}
		m.ShineMeters += e.Balloons.Shine
		for _, sb := range e.SpecialBalloons {
			specials.add(sb.Type+" "+sb.Size, sb.Quantity)
			m.TotalSpecialBalloons += sb.Quantity
		}
	}
	m.TotalMeters = m.DomesticMeters + m.ImportedMeters
	m.SpecialBalloons = specials.sorted()
	return m
}

// tallyF is tally for float sums (revenue per client).
type tallyF struct {
	sums  map[string]float64
	order []string
}

func newTallyF() *tallyF {
	return &tallyF{sums: map[string]float64{}}
}

func (t *tallyF) add(key string, v float64) {
	if _, seen := t.sums[key]; !seen {
		t.order = append(t.order, key)
	}
	t.sums[key] += v
}

func (t *tallyF) max() (string, float64, bool) {
	var bestKey string
	var bestSum float64
	found := false
	for _, key := range t.order {
		if !found || t.sums[key] > bestSum {
			bestKey, bestSum = key, t.sums[key]
			found = true
		}
	}
	return bestKey, bestSum, found
}
