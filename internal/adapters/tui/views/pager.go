package views

// pager tracks a cursor over a list that is shown one page at a time
type pager struct {
	size   int
	offset int
	cursor int
	total  int
}

func newPager(size int) *pager {
	if size <= 0 {
		size = 10
	}
	return &pager{size: size}
}

// setSize changes the page height, keeping the cursor visible
func (p *pager) setSize(size int) {
	if size <= 0 {
		return
	}
	p.size = size
	p.settle()
}

// setTotal updates the item count and clamps the cursor
func (p *pager) setTotal(total int) {
	p.total = total
	p.settle()
}

// moveTo puts the cursor on index i (clamped)
func (p *pager) moveTo(i int) {
	p.cursor = i
	p.settle()
}

func (p *pager) up()   { p.moveTo(p.cursor - 1) }
func (p *pager) down() { p.moveTo(p.cursor + 1) }

func (p *pager) nextPage() {
	if p.offset+p.size < p.total {
		p.offset += p.size
		p.cursor = p.offset
	}
}

func (p *pager) prevPage() {
	if p.offset > 0 {
		p.offset = max(0, p.offset-p.size)
		p.cursor = p.offset
	}
}

// visible returns the half-open index range of the current page
func (p *pager) visible() (start, end int) {
	return p.offset, min(p.offset+p.size, p.total)
}

func (p *pager) page() int  { return p.offset/p.size + 1 }
func (p *pager) pages() int { return max(1, (p.total+p.size-1)/p.size) }

func (p *pager) settle() {
	p.cursor = max(0, min(p.cursor, p.total-1))
	if p.cursor < p.offset || p.cursor >= p.offset+p.size {
		p.offset = (p.cursor / p.size) * p.size
	}
}
