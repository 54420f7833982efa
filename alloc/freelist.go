package alloc

// freeBlock links one free block into its size-class list. The link lives in
// this record, never inside the block's bytes, so a free block shares no state
// with the client data it held while live.
type freeBlock struct {
	mem  []byte
	next *freeBlock
}

// freeList is the singly linked list of free blocks for one size class.
type freeList struct {
	head  *freeBlock
	depth int
}

// push links mem in as the new head of class idx.
func (p *Pool) push(idx int, mem []byte) {
	node := p.getFreeBlock()
	node.mem = mem
	fl := &p.freeLists[idx]
	node.next = fl.head
	fl.head = node
	fl.depth++
}

// pop unlinks the head of class idx, or returns nil when the list is empty.
func (p *Pool) pop(idx int) []byte {
	fl := &p.freeLists[idx]
	node := fl.head
	if node == nil {
		return nil
	}
	fl.head = node.next
	fl.depth--
	mem := node.mem
	p.putFreeBlock(node)
	return mem
}

// getFreeBlock gets a link record from the pool.
func (p *Pool) getFreeBlock() *freeBlock {
	return p.freeBlockPool.Get().(*freeBlock) //nolint:errcheck // pool New guarantees type
}

// putFreeBlock returns a link record to the pool.
func (p *Pool) putFreeBlock(node *freeBlock) {
	node.mem = nil
	node.next = nil
	p.freeBlockPool.Put(node)
}
