package catalog_test

import (
	"net/url"
	"strconv"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func urlQuery(s string) string { return url.QueryEscape(s) }
