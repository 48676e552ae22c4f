package common

import (
	"strconv"
	"strings"
)

// clrs is a stack of active ANSI attributes. Popping restores the
// attributes that were active before the last push so nested highlights
// inside a coloured line keep the outer colour.
type clrs struct {
	stack []clr
	off   bool
}

func (c *clrs) Get(ansi ...int) clr {
	if c.off {
		return clr{}
	}
	return clr{q: c, ansi: ansi}
}

func (c *clrs) Pop() clr {
	if c.off {
		return clr{}
	}
	return clr{q: c, pop: true, ansi: []int{0}}
}

type clr struct {
	q    *clrs
	pop  bool
	ansi []int
}

func (c clr) str() string {
	if len(c.ansi) == 0 {
		return ""
	}
	s := make([]string, len(c.ansi))
	for i, v := range c.ansi {
		s[i] = strconv.Itoa(v)
	}
	return "\033[" + strings.Join(s, ";") + "m"
}

func (c clr) String() string {
	if len(c.ansi) == 0 {
		return ""
	}
	if c.pop {
		st := &c.q.stack
		if len(*st) != 0 {
			*st = (*st)[:len(*st)-1]
			if len(*st) != 0 {
				return "\033[0m" + (*st)[len(*st)-1].str()
			}
		}
		return "\033[0m"
	}

	if c.q != nil {
		c.q.stack = append(c.q.stack, c)
	}
	return c.str()
}

type stringer interface {
	String() string
}

type strStringer string

func (str strStringer) String() string {
	return string(str)
}

type stringList []stringer

func (s stringList) String() string {
	n := make([]string, len(s))
	for i := range s {
		n[i] = s[i].String()
	}
	return strings.Join(n, "")
}
