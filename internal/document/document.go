package document

import (
	"errors"
	"fmt"
)

var ErrDuplicateID = errors.New("duplicate object id")

type Direction int

const (
	Forward Direction = iota
	Backward
)

// Document is the ordered object list. Index 0 is painted first, so the last
// object is the top-most; slice order is the only z-order.
type Document struct {
	objects []Object
}

func New() *Document {
	return &Document{}
}

// Objects returns the live slice. Callers must not append to or reorder it.
func (d *Document) Objects() []Object { return d.objects }

func (d *Document) Len() int { return len(d.objects) }

func (d *Document) IndexOf(id string) int {
	for i, o := range d.objects {
		if o.Base().ID == id {
			return i
		}
	}
	return -1
}

func (d *Document) Find(id string) (Object, bool) {
	if i := d.IndexOf(id); i >= 0 {
		return d.objects[i], true
	}
	return nil, false
}

// Insert appends obj on top of the stack.
func (d *Document) Insert(obj Object) error {
	if d.IndexOf(obj.Base().ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, obj.Base().ID)
	}
	d.objects = append(d.objects, obj)
	return nil
}

func (d *Document) Remove(id string) bool {
	i := d.IndexOf(id)
	if i < 0 {
		return false
	}
	d.objects = append(d.objects[:i], d.objects[i+1:]...)
	return true
}

// Reorder moves an object one step up or down the stack. It reports whether
// anything moved; at the top (or bottom) it is a no-op.
func (d *Document) Reorder(id string, dir Direction) bool {
	i := d.IndexOf(id)
	if i < 0 {
		return false
	}
	j := i + 1
	if dir == Backward {
		j = i - 1
	}
	if j < 0 || j >= len(d.objects) {
		return false
	}
	d.objects[i], d.objects[j] = d.objects[j], d.objects[i]
	return true
}

// Snapshot returns a deep copy of the object list.
func (d *Document) Snapshot() []Object {
	return CloneAll(d.objects)
}

// Replace swaps in a new object list wholesale. The list is deep-copied and
// rejected without side effects if it repeats an id.
func (d *Document) Replace(objects []Object) error {
	if err := checkUnique(objects); err != nil {
		return err
	}
	d.objects = CloneAll(objects)
	return nil
}

func (d *Document) Clear() {
	d.objects = nil
}

func checkUnique(objects []Object) error {
	seen := make(map[string]struct{}, len(objects))
	for _, o := range objects {
		id := o.Base().ID
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
