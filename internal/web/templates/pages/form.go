// Package pages renders the console pages.
package pages

import (
	"net/url"
	"strconv"
)

func pageHref(base string, page int, extra url.Values) string {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return base + "?" + q.Encode()
}

func submitClass(danger bool) string {
	if danger {
		return "submit danger"
	}
	return "submit"
}
