// Package collections builds collection signals on top of viste streams.
//
// A collection is described only by its change log: a stream of
// SetChange values (Added, Removed, Clear). Transforms such as Map and
// Filter rewrite the log item by item. Views replay it into a concrete
// container and are the place where the current contents can be read.
//
//	p, labels := collections.NewPortal[string](w)
//	sorted := collections.ViewSetBTree(labels)
//
//	p.Add("b")
//	p.Add("a")
//	sorted.Items() // [a b]
//
// A reader that attaches to a view's Collection after items were added
// first receives one Added change per current item, so a dependent view
// built late ends up with the same contents.
//
// Removing an item a view does not hold is a broken change log and
// panics with E008.
package collections
