package engine

import (
	"slices"
)

// Size is the footprint of one item to pack, in mm.
type Size struct {
	W, H float64
}

// PackSettings describe the page items are packed onto. Lengths in mm.
type PackSettings struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	Gap        float64 // free space kept between neighbouring items
}

// DefaultPackSettings returns an A4 portrait page with 10mm margins.
func DefaultPackSettings() PackSettings {
	return PackSettings{PageWidth: 210, PageHeight: 297, Margin: 10, Gap: 3}
}

// Placement positions item Item on a page, origin top-left.
type Placement struct {
	Item int
	X, Y float64
	W, H float64
}

// Page is one packed page.
type Page struct {
	Placements []Placement
}

// Efficiency returns the share of the usable page area that is covered.
func (p Page) Efficiency(s PackSettings) float64 {
	usable := (s.PageWidth - 2*s.Margin) * (s.PageHeight - 2*s.Margin)
	if usable <= 0 {
		return 0
	}
	var used float64
	for _, pl := range p.Placements {
		used += pl.W * pl.H
	}
	return used / usable * 100
}

// PackResult lists the pages and the indices of items that fit no page.
type PackResult struct {
	Pages    []Page
	Unplaced []int
}

// Pack lays items out on as many pages as needed. Every page is packed with
// several ordering strategies and the one placing the most items wins, ties
// going to the higher efficiency.
func Pack(items []Size, s PackSettings) PackResult {
	var result PackResult
	remaining := make([]int, 0, len(items))
	for i, it := range items {
		if it.W <= 0 || it.H <= 0 {
			result.Unplaced = append(result.Unplaced, i)
			continue
		}
		remaining = append(remaining, i)
	}

	for len(remaining) > 0 {
		page, left := packPageBestStrategy(items, remaining, s)
		if len(page.Placements) == 0 {
			break
		}
		result.Pages = append(result.Pages, page)
		remaining = left
	}
	result.Unplaced = append(result.Unplaced, remaining...)
	slices.Sort(result.Unplaced)
	return result
}

// orderStrategy sorts candidates before a page is packed.
type orderStrategy int

const (
	orderArea   orderStrategy = iota // Largest area first
	orderHeight                      // Tallest first, builds even rows
	orderWidth                       // Widest first
)

func packPageBestStrategy(items []Size, candidates []int, s PackSettings) (Page, []int) {
	var bestPage Page
	var bestLeft []int
	bestPlaced := -1

	for _, strat := range []orderStrategy{orderArea, orderHeight, orderWidth} {
		page, left := packPage(items, sortCandidates(items, candidates, strat), s)
		placed := len(page.Placements)
		if placed > bestPlaced || (placed == bestPlaced && placed > 0 && page.Efficiency(s) > bestPage.Efficiency(s)) {
			bestPlaced = placed
			bestPage = page
			bestLeft = left
		}
	}
	return bestPage, bestLeft
}

func sortCandidates(items []Size, candidates []int, strat orderStrategy) []int {
	out := slices.Clone(candidates)
	key := func(i int) float64 {
		switch strat {
		case orderHeight:
			return items[i].H
		case orderWidth:
			return items[i].W
		default:
			return items[i].W * items[i].H
		}
	}
	slices.SortStableFunc(out, func(a, b int) int {
		ka, kb := key(a), key(b)
		switch {
		case ka > kb:
			return -1
		case ka < kb:
			return 1
		}
		return 0
	})
	return out
}

// packPage places candidates in order, returning the ones that did not fit
// in their original order.
func packPage(items []Size, candidates []int, s PackSettings) (Page, []int) {
	// the gap trailing the last item in a row or column may overlap the margin
	packer := newGuillotinePacker(s.PageWidth-2*s.Margin+s.Gap, s.PageHeight-2*s.Margin+s.Gap, s.Gap)

	var page Page
	var left []int
	for _, idx := range candidates {
		it := items[idx]
		ok, x, y := packer.insert(it.W, it.H)
		if !ok {
			left = append(left, idx)
			continue
		}
		page.Placements = append(page.Placements, Placement{
			Item: idx,
			X:    s.Margin + x,
			Y:    s.Margin + y,
			W:    it.W,
			H:    it.H,
		})
	}
	return page, left
}

// guillotinePacker implements the guillotine bin-packing algorithm.
// It maintains a list of free rectangles and splits them on each insertion.
type guillotinePacker struct {
	freeRects []rect
	gap       float64
}

type rect struct {
	x, y, w, h float64
}

func newGuillotinePacker(width, height, gap float64) *guillotinePacker {
	return &guillotinePacker{
		freeRects: []rect{{0, 0, width, height}},
		gap:       gap,
	}
}

// insert tries to place an item of given dimensions. Returns success and
// position. Uses the Best Area Fit heuristic.
func (gp *guillotinePacker) insert(w, h float64) (bool, float64, float64) {
	bestIdx := -1
	bestAreaFit := float64(-1)
	wg := w + gp.gap
	hg := h + gp.gap

	for i, r := range gp.freeRects {
		if wg <= r.w+0.001 && hg <= r.h+0.001 {
			areaFit := (r.w * r.h) - (w * h)
			if bestIdx < 0 || areaFit < bestAreaFit {
				bestIdx = i
				bestAreaFit = areaFit
			}
		}
	}

	if bestIdx < 0 {
		return false, 0, 0
	}

	chosen := gp.freeRects[bestIdx]
	gp.splitAroundPlacement(rect{x: chosen.x, y: chosen.y, w: wg, h: hg})
	return true, chosen.x, chosen.y
}

// splitAroundPlacement removes all free rects that overlap with the placed
// rect and generates maximal sub-rects from each overlap. Then prunes
// contained rects.
func (gp *guillotinePacker) splitAroundPlacement(placed rect) {
	var newRects []rect

	for _, r := range gp.freeRects {
		if !rectsOverlap(r, placed) {
			newRects = append(newRects, r)
			continue
		}

		// Left strip (full height of original rect)
		if placed.x > r.x+0.001 {
			newRects = append(newRects, rect{x: r.x, y: r.y, w: placed.x - r.x, h: r.h})
		}
		// Right strip
		if placed.x+placed.w < r.x+r.w-0.001 {
			newRects = append(newRects, rect{
				x: placed.x + placed.w, y: r.y,
				w: (r.x + r.w) - (placed.x + placed.w), h: r.h,
			})
		}
		// Top strip (full width of original rect)
		if placed.y > r.y+0.001 {
			newRects = append(newRects, rect{x: r.x, y: r.y, w: r.w, h: placed.y - r.y})
		}
		// Bottom strip
		if placed.y+placed.h < r.y+r.h-0.001 {
			newRects = append(newRects, rect{
				x: r.x, y: placed.y + placed.h,
				w: r.w, h: (r.y + r.h) - (placed.y + placed.h),
			})
		}
	}

	gp.freeRects = pruneContained(newRects)
}

// rectsOverlap returns true if two rectangles overlap (not just touch).
func rectsOverlap(a, b rect) bool {
	return a.x < b.x+b.w-0.001 && a.x+a.w > b.x+0.001 &&
		a.y < b.y+b.h-0.001 && a.y+a.h > b.y+0.001
}

// pruneContained removes any rect that is fully contained within another.
func pruneContained(rects []rect) []rect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]rect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			// identical rects: keep the first
			if i != j && containsRect(b, a) && !(a == b && i < j) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

// containsRect returns true if outer fully contains inner.
func containsRect(outer, inner rect) bool {
	return outer.x <= inner.x+0.001 && outer.y <= inner.y+0.001 &&
		outer.x+outer.w >= inner.x+inner.w-0.001 &&
		outer.y+outer.h >= inner.y+inner.h-0.001
}
