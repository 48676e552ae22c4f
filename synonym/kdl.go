package synonym

import (
	"fmt"
	"io"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/frizinak/uiloc/data"
	"github.com/frizinak/uiloc/locale"
)

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func stringArgs(n *document.Node) []string {
	l := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			l = append(l, s)
		}
	}
	return l
}

// parseThesaurus reads
//
//	lang "en" {
//	    group "cancel" "abort" "stop"
//	}
//
// into lang -> groups.
func parseThesaurus(r io.Reader) (map[string][][]string, error) {
	doc, err := kdl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse thesaurus: %w", err)
	}

	groups := make(map[string][][]string)
	for _, n := range doc.Nodes {
		if nodeName(n) != "lang" {
			return nil, fmt.Errorf("thesaurus: unexpected node %q", nodeName(n))
		}
		args := stringArgs(n)
		if len(args) != 1 {
			return nil, fmt.Errorf("thesaurus: lang node needs exactly one code")
		}
		lang := locale.Canonical(args[0])
		for _, cn := range n.Children {
			if nodeName(cn) != "group" {
				continue
			}
			members := make([]string, 0, len(cn.Arguments))
			for _, m := range stringArgs(cn) {
				if m = strings.TrimSpace(m); m != "" {
					members = append(members, m)
				}
			}
			if len(members) > 1 {
				groups[lang] = append(groups[lang], members)
			}
		}
	}

	return groups, nil
}

// LoadLexicon reads a KDL thesaurus from path.
func LoadLexicon(path string, maxTerms int) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseLexicon(f, maxTerms)
}

// DefaultLexicon uses the built-in thesaurus.
func DefaultLexicon(maxTerms int) (*Lexicon, error) {
	return ParseLexicon(strings.NewReader(data.Thesaurus), maxTerms)
}
