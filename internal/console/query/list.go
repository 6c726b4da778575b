package query

import (
	"context"
)

// Page sizes of the console lists
const (
	AthletesPageSize = 10
	UsersPageSize    = 5
)

// Fetcher reads one window of a list and the total number of records
type Fetcher[T any] func(ctx context.Context, skip, limit int) ([]T, int, error)

// PageView is what a list screen renders
type PageView[T any] struct {
	Items []T
	Count int
	Page  int
	Pages int
	// Placeholder marks Items as left over from an earlier load
	Placeholder bool
	Err         error
}

// HasPrev reports whether a previous page exists
func (v PageView[T]) HasPrev() bool { return v.Page > 1 }

// HasNext reports whether a following page exists
func (v PageView[T]) HasNext() bool { return v.Page < v.Pages }

// PageCount returns ceil(count / size)
func PageCount(count, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// Window returns the skip and limit for a 1-based page
func Window(page, size int) (skip, limit int) {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size, size
}

type snapshot[T any] struct {
	items []T
	count int
	page  int
}

// ListLoader loads pages of a list through a Cache
type ListLoader[T any] struct {
	Cache    *Cache
	Name     string
	PageSize int
	Fetch    Fetcher[T]
	// OnError receives every failed fetch
	OnError func(error)
}

func (l *ListLoader[T]) key(page int) Key {
	return Key{l.Name, page}
}

func (l *ListLoader[T]) latestKey() Key {
	return Key{l.Name, "latest"}
}

// Load returns the given page, fetching it unless a fresh copy is cached.
// A failed fetch keeps showing the last loaded page as a placeholder.
func (l *ListLoader[T]) Load(ctx context.Context, page int) PageView[T] {
	if page < 1 {
		page = 1
	}

	if v, stale, ok := l.Cache.Get(l.key(page)); ok && !stale {
		if snap, ok := v.(snapshot[T]); ok {
			return l.view(snap, page, false)
		}
	}

	skip, limit := Window(page, l.PageSize)
	items, count, err := l.Fetch(ctx, skip, limit)
	if err != nil {
		if l.OnError != nil {
			l.OnError(err)
		}
		view := l.Placeholder(page)
		view.Err = err
		return view
	}

	snap := snapshot[T]{items: items, count: count, page: page}
	l.Cache.Set(l.key(page), snap)
	l.Cache.Set(l.latestKey(), snap)
	return l.view(snap, page, false)
}

// Placeholder returns the last loaded page, marked as a placeholder for page
func (l *ListLoader[T]) Placeholder(page int) PageView[T] {
	v, _, ok := l.Cache.Get(l.latestKey())
	snap, _ := v.(snapshot[T])
	if !ok {
		return PageView[T]{Page: page, Placeholder: true}
	}
	return l.view(snap, page, true)
}

func (l *ListLoader[T]) view(snap snapshot[T], page int, placeholder bool) PageView[T] {
	return PageView[T]{
		Items:       snap.items,
		Count:       snap.count,
		Page:        page,
		Pages:       PageCount(snap.count, l.PageSize),
		Placeholder: placeholder,
	}
}
