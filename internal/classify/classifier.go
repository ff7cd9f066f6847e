// Package classify infers the constrained classification taxonomy (book type,
// genre, sub-genre, topic) from a work's free-text subject tags.
//
// Two policies exist in the wild for genre ties: "require uniqueness" and
// "first match". This implementation deterministically takes the first match
// in subject-tag input order in quick mode; interactive mode instead prompts
// the operator whenever zero or multiple candidates remain.
package classify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"readingtracker/internal/entity"
	"readingtracker/internal/normalize"
	"readingtracker/internal/taxonomy"
)

// Classification is the classifier's result. Empty fields are unresolved;
// classification never fails outright.
type Classification struct {
	BookType string
	Genre    string
	SubGenre string
	Topic    string
}

// Classifier matches subject tags against the taxonomy. With a nil chooser it
// runs fully automatic ("quick" mode), safe for server request paths. With a
// chooser it blocks on operator input and must only be wired into offline
// tools.
type Classifier struct {
	taxonomy *taxonomy.Service
	chooser  Disambiguator
}

func New(tax *taxonomy.Service) *Classifier {
	return &Classifier{taxonomy: tax}
}

func NewInteractive(tax *taxonomy.Service, chooser Disambiguator) *Classifier {
	return &Classifier{taxonomy: tax, chooser: chooser}
}

func (c *Classifier) interactive() bool {
	return c.chooser != nil
}

// Classify maps subjects to the taxonomy. typeHint, when non-empty, is used
// only if the subjects themselves do not determine the book type.
func (c *Classifier) Classify(ctx context.Context, subjects []string, typeHint string) Classification {
	var out Classification
	out.BookType = inferBookType(subjects)
	if out.BookType == "" {
		out.BookType = typeHint
	}

	snap, err := c.taxonomy.Snapshot(ctx)
	if err != nil {
		// Taxonomy unavailable: classification degrades to the type scan.
		log.Printf("classify: taxonomy unavailable: %v", err)
		return out
	}

	if out.BookType == "" && c.interactive() {
		if choice, ok := c.chooser.ChooseOne("Select the book type:",
			[]string{entity.BookTypeFiction, entity.BookTypeNonFiction}); ok {
			out.BookType = choice
		}
	}

	genres := snap.GenresForType(out.BookType)
	genreNames := make([]string, len(genres))
	for i, g := range genres {
		genreNames[i] = g.Name
	}
	out.Genre = c.matchOne(subjects, genreNames, snap, "genre")

	if out.Genre != "" {
		for _, g := range genres {
			if g.Name == out.Genre {
				out.SubGenre = c.matchOne(subjects, g.SubGenres, snap, "sub-genre")
				break
			}
		}
		// Back-fill the book type from the genre's owning taxonomy entry.
		if out.BookType == "" {
			out.BookType = snap.TypeOfGenre(out.Genre)
		}
	}

	out.Topic = c.matchTopic(ctx, subjects, snap)
	return out
}

// matchOne intersects the normalized, alias-mapped subject tags with the known
// names. Quick mode takes the first match in subject input order; interactive
// mode prompts when the match is not unique.
func (c *Classifier) matchOne(subjects, known []string, snap *taxonomy.Snapshot, kind string) string {
	if len(known) == 0 {
		return ""
	}
	byKey := make(map[string]string, len(known))
	for _, name := range known {
		byKey[normalize.Normalize(name)] = name
	}

	var candidates []string
	seen := make(map[string]bool)
	for _, subj := range subjects {
		key := snap.ApplyAlias(normalize.Normalize(subj))
		if name, ok := byKey[key]; ok && !seen[name] {
			seen[name] = true
			candidates = append(candidates, name)
		}
	}

	switch {
	case len(candidates) == 1:
		return candidates[0]
	case len(candidates) > 1 && !c.interactive():
		return candidates[0] // first match in input order
	case len(candidates) > 1:
		if choice, ok := c.chooser.ChooseOne(
			fmt.Sprintf("Multiple %ss match. Select the most appropriate:", kind),
			append(candidates, ChoiceNone)); ok && choice != ChoiceNone {
			return choice
		}
		fallthrough
	default:
		if !c.interactive() {
			return ""
		}
		// Manual-entry escape: offer the full known list.
		if choice, ok := c.chooser.ChooseOne(
			fmt.Sprintf("Select the %s that fits best:", kind),
			append(append([]string{}, known...), ChoiceNone)); ok && choice != ChoiceNone {
			return choice
		}
		return ""
	}
}

// matchTopic matches subjects against known topic names (case-insensitive
// exact match). With no automatic match in interactive mode, the remaining
// subject tags are offered to the operator and the chosen one is registered as
// a new topic.
func (c *Classifier) matchTopic(ctx context.Context, subjects []string, snap *taxonomy.Snapshot) string {
	var leftovers []string
	for _, subj := range subjects {
		if topic, ok := snap.TopicByKey(normalize.Normalize(subj)); ok {
			return topic
		}
		leftovers = append(leftovers, subj)
	}

	if !c.interactive() || len(leftovers) == 0 {
		return ""
	}

	choice, ok := c.chooser.ChooseOne("No known topic matched. Pick one to add:",
		append(leftovers, ChoiceSkip))
	if !ok || choice == ChoiceSkip {
		return ""
	}
	if err := c.taxonomy.RegisterTopic(ctx, choice); err != nil {
		log.Printf("classify: registering topic %q failed: %v", choice, err)
	}
	return choice
}

// inferBookType scans subject tags for the non-fiction markers first, then for
// an exact "fiction" tag.
func inferBookType(subjects []string) string {
	for _, s := range subjects {
		l := strings.ToLower(s)
		if strings.Contains(l, "non-fiction") || strings.Contains(l, "nonfiction") || strings.Contains(l, "non fiction") {
			return entity.BookTypeNonFiction
		}
	}
	for _, s := range subjects {
		if strings.EqualFold(s, "fiction") {
			return entity.BookTypeFiction
		}
	}
	return ""
}
