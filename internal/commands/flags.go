package commands

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"kzone/internal/search"
)

// optString is a string flag that remembers whether it was given, so
// partial updates can tell "unset" from "set to empty".
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// ptr returns nil when the flag was not given.
func (o *optString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// optBool is a "true"/"false" valued flag (not a switch).
type optBool struct {
	value bool
	set   bool
}

func (o *optBool) String() string {
	if !o.set {
		return ""
	}
	return strconv.FormatBool(o.value)
}

func (o *optBool) Set(s string) error {
	switch strings.ToLower(s) {
	case "true":
		o.value = true
	case "false":
		o.value = false
	default:
		return fmt.Errorf("expected true or false, got %q", s)
	}
	o.set = true
	return nil
}

func (o *optBool) ptr() *bool {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// optInt is an integer flag that remembers whether it was given.
type optInt struct {
	value int
	set   bool
}

func (o *optInt) String() string {
	if !o.set {
		return ""
	}
	return strconv.Itoa(o.value)
}

func (o *optInt) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("expected an integer, got %q", s)
	}
	o.value = n
	o.set = true
	return nil
}

func (o *optInt) ptr() *int {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

// filterFlags are the client-side card filters shared by cards and
// search-cards.
type filterFlags struct {
	query    string
	label    string
	owner    string
	column   string
	priority string
	blocked  bool
}

func (f *filterFlags) register(fs *flag.FlagSet, withColumn bool) {
	*f = filterFlags{}
	fs.StringVar(&f.query, "query", "", "")
	fs.StringVar(&f.label, "label", "", "")
	fs.StringVar(&f.owner, "owner", "", "")
	fs.StringVar(&f.priority, "priority", "", "")
	fs.BoolVar(&f.blocked, "blocked", false, "")
	if withColumn {
		fs.StringVar(&f.column, "column", "", "")
	}
}

func (f *filterFlags) filter() search.Filter {
	return search.Filter{
		Query:    f.query,
		Label:    f.label,
		Owner:    f.owner,
		Column:   f.column,
		Priority: f.priority,
		Blocked:  f.blocked,
	}
}
