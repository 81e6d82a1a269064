package services

import (
	"container/heap"
	"math"

	"transit-network-service/internal/domain"
)

// TransitRouter answers minimum travel-time queries between stops across a
// fixed set of lines, allowing a bounded number of transfers.
//
// The search is label-setting Dijkstra over (line, position-on-line,
// transfers-used) states with a lazy decrease-key min-heap: stale heap
// entries are skipped on pop. Pop order is strictly by accumulated cost, so
// the first state popped at the destination stop is optimal.
//
// Per-line leg times are precomputed at construction; a router is immutable
// and safe to reuse for every OD query against the same line set.
type TransitRouter struct {
	lines      []domain.Line
	lineStops  map[string][]string       // line ID → ordered stop IDs
	lineIndex  map[string]map[string]int // line ID → stop ID → position
	stopLines  map[string][]string       // stop ID → line IDs serving it, in line order
	legMinutes map[string][]float64      // line ID → travel time of leg i → i+1
}

// NewTransitRouter precomputes routing indices for the given line set.
func NewTransitRouter(lines []domain.Line, stops map[string]domain.Stop, speedKmh float64) *TransitRouter {
	r := &TransitRouter{
		lines:      lines,
		lineStops:  make(map[string][]string, len(lines)),
		lineIndex:  make(map[string]map[string]int, len(lines)),
		stopLines:  make(map[string][]string),
		legMinutes: make(map[string][]float64, len(lines)),
	}

	for _, ln := range lines {
		r.lineStops[ln.ID] = ln.StopIDs
		idx := make(map[string]int, len(ln.StopIDs))
		for i, sid := range ln.StopIDs {
			idx[sid] = i
			r.stopLines[sid] = append(r.stopLines[sid], ln.ID)
		}
		r.lineIndex[ln.ID] = idx

		legs := make([]float64, 0, len(ln.StopIDs))
		for i := 0; i < len(ln.StopIDs)-1; i++ {
			a := stops[ln.StopIDs[i]].Coord
			b := stops[ln.StopIDs[i+1]].Coord
			legs = append(legs, a.TravelMinutes(b, speedKmh))
		}
		r.legMinutes[ln.ID] = legs
	}

	return r
}

// routeState identifies one Dijkstra label.
type routeState struct {
	line      string
	pos       int
	transfers int
}

// ShortestTime returns the minimum travel time in minutes from origin to
// destination using at most kMax transfers, or +Inf when no such path exists.
//
// waitByLine gives the initial and post-transfer waiting time per line;
// transferPenalty is added on every line change on top of the new line's wait.
func (r *TransitRouter) ShortestTime(origin, destination string, waitByLine map[string]float64, transferPenalty float64, kMax int) float64 {
	if len(r.lines) == 0 {
		return math.Inf(1)
	}
	if _, ok := r.stopLines[origin]; !ok {
		return math.Inf(1)
	}
	if _, ok := r.stopLines[destination]; !ok {
		return math.Inf(1)
	}

	dist := make(map[routeState]float64)
	pq := make(statePQ, 0, len(r.stopLines[origin]))
	heap.Init(&pq)

	for _, lid := range r.stopLines[origin] {
		s := routeState{line: lid, pos: r.lineIndex[lid][origin]}
		c := waitByLine[lid]
		dist[s] = c
		heap.Push(&pq, &stateItem{state: s, cost: c})
	}

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*stateItem)
		if item.cost != dist[item.state] {
			continue // stale entry
		}

		cur := item.state
		lineStops := r.lineStops[cur.line]
		curStop := lineStops[cur.pos]
		if curStop == destination {
			return item.cost
		}

		// Forward move along the same line.
		if cur.pos < len(lineStops)-1 {
			next := routeState{line: cur.line, pos: cur.pos + 1, transfers: cur.transfers}
			cost := item.cost + r.legMinutes[cur.line][cur.pos]
			if best, seen := dist[next]; !seen || cost < best {
				dist[next] = cost
				heap.Push(&pq, &stateItem{state: next, cost: cost})
			}
		}

		// Transfer to any other line serving the current stop.
		if cur.transfers < kMax {
			for _, lid := range r.stopLines[curStop] {
				if lid == cur.line {
					continue
				}
				next := routeState{line: lid, pos: r.lineIndex[lid][curStop], transfers: cur.transfers + 1}
				cost := item.cost + transferPenalty + waitByLine[lid]
				if best, seen := dist[next]; !seen || cost < best {
					dist[next] = cost
					heap.Push(&pq, &stateItem{state: next, cost: cost})
				}
			}
		}
	}

	return math.Inf(1)
}

// WaitByLine computes the mean wait per line: half the headway, where headway
// is 60 / max(freqFloor, fleet / |lines|) buses per hour.
func WaitByLine(lines []domain.Line, fleetSize int, freqFloor float64) map[string]float64 {
	waits := make(map[string]float64, len(lines))
	if len(lines) == 0 {
		return waits
	}

	freq := math.Max(freqFloor, float64(fleetSize)/float64(len(lines)))
	headway := 60 / freq
	for _, ln := range lines {
		waits[ln.ID] = headway / 2
	}
	return waits
}

type stateItem struct {
	state routeState
	cost  float64
}

// statePQ is a min-heap of route states ordered by accumulated cost.
type statePQ []*stateItem

func (pq statePQ) Len() int           { return len(pq) }
func (pq statePQ) Less(i, j int) bool { return pq[i].cost < pq[j].cost }
func (pq statePQ) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }
func (pq *statePQ) Push(x any)        { *pq = append(*pq, x.(*stateItem)) }

func (pq *statePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
