package session

import (
	"errors"
	"fmt"
	"strings"
)

// Category is a selectable taste tag drawn from a fixed vocabulary.
type Category string

// UnknownCategoryError is returned when selecting a category that is not part
// of the session's vocabulary.
type UnknownCategoryError struct {
	Category Category
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", string(e.Category))
}

// CategorySet is the immutable, ordered vocabulary of a session.
type CategorySet struct {
	order []Category
	index map[Category]int
}

// NewCategorySet builds a vocabulary. Duplicates collapse onto their first
// occurrence; blank categories are rejected.
func NewCategorySet(categories ...Category) (CategorySet, error) {
	if len(categories) == 0 {
		return CategorySet{}, errors.New("category vocabulary is empty")
	}

	set := CategorySet{
		order: make([]Category, 0, len(categories)),
		index: make(map[Category]int, len(categories)),
	}
	for _, c := range categories {
		if strings.TrimSpace(string(c)) == "" {
			return CategorySet{}, errors.New("category vocabulary contains a blank entry")
		}
		if _, dup := set.index[c]; dup {
			continue
		}
		set.index[c] = len(set.order)
		set.order = append(set.order, c)
	}
	return set, nil
}

// CategoriesFromStrings converts configured names into categories.
func CategoriesFromStrings(names []string) []Category {
	out := make([]Category, len(names))
	for i, n := range names {
		out[i] = Category(n)
	}
	return out
}

// Contains reports whether c is part of the vocabulary.
func (s CategorySet) Contains(c Category) bool {
	_, ok := s.index[c]
	return ok
}

// Len returns the vocabulary size.
func (s CategorySet) Len() int { return len(s.order) }

// All returns the vocabulary in its original order. The slice is a copy.
func (s CategorySet) All() []Category {
	return append([]Category(nil), s.order...)
}

// Selection is an immutable subset of a CategorySet. Adding or removing a
// category yields a new Selection and never touches the receiver.
type Selection struct {
	vocab   CategorySet
	members map[Category]struct{}
}

func emptySelection(vocab CategorySet) Selection {
	return Selection{vocab: vocab}
}

// Contains reports whether c is selected.
func (s Selection) Contains(c Category) bool {
	_, ok := s.members[c]
	return ok
}

// Len returns the number of selected categories.
func (s Selection) Len() int { return len(s.members) }

// Slice returns the selected categories in vocabulary order.
func (s Selection) Slice() []Category {
	out := make([]Category, 0, len(s.members))
	for _, c := range s.vocab.order {
		if s.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// Strings returns the selected categories as plain strings in vocabulary order.
func (s Selection) Strings() []string {
	cats := s.Slice()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

// with returns a copy of s that also contains c. c must be in the vocabulary.
func (s Selection) with(c Category) Selection {
	members := make(map[Category]struct{}, len(s.members)+1)
	for m := range s.members {
		members[m] = struct{}{}
	}
	members[c] = struct{}{}
	return Selection{vocab: s.vocab, members: members}
}

// without returns a copy of s that does not contain c.
func (s Selection) without(c Category) Selection {
	members := make(map[Category]struct{}, len(s.members))
	for m := range s.members {
		if m != c {
			members[m] = struct{}{}
		}
	}
	return Selection{vocab: s.vocab, members: members}
}
