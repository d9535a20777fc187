package domain

import (
	"sort"
	"strings"
)

// Feed ranking is a pure function of a post snapshot: the input slice is never
// mutated and repeated calls over the same snapshot yield the same order.

// RankNewest returns posts in reverse-chronological order.
func RankNewest(posts []Post) []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// RankPopular returns posts ordered by score descending. The sort is stable:
// ties keep their relative order from the input snapshot.
func RankPopular(posts []Post) []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	return out
}

// FilterQuery returns the subset of posts whose title or content contains
// query, case-insensitively, preserving input order. An empty query matches
// everything.
func FilterQuery(posts []Post, query string) []Post {
	if query == "" {
		return posts
	}
	q := strings.ToLower(query)
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q) {
			out = append(out, p)
		}
	}
	return out
}
