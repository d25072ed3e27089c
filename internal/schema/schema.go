// Package schema turns untrusted request bodies into validated write records.
//
// Input goes through two passes. Normalization is the only place that looks
// at dynamic types: it trims strings, coerces comma separated tags and checks
// that categoryId is an integer. Validation then applies the field rules
// declared as validate tags on the types in pkg/types.
package schema

import (
	"hilltop/pkg/types"
)

// Mode selects full-record rules (create) or partial rules (update). In
// partial mode absent fields are skipped but present ones get their full rule.
type Mode int

const (
	Create Mode = iota
	Update
)

func Category(f Fields, mode Mode) (*types.CategoryInput, error) {
	n := newNormalizer(f)

	in := &types.CategoryInput{
		Name:        n.text("name", false),
		Description: n.text("description", false),
		Icon:        n.text("icon", false),
	}

	if err := validateInput(in, n, mode); err != nil {
		return nil, err
	}

	return in, nil
}

func Resource(f Fields, mode Mode) (*types.ResourceInput, error) {
	n := newNormalizer(f)

	in := &types.ResourceInput{
		Title:       n.text("title", false),
		Description: n.text("description", false),
		URL:         n.text("url", true),
		CategoryID:  n.integer("categoryId"),
		Tags:        n.tags("tags"),
		ImageURL:    n.text("imageUrl", true),
	}

	if mode == Create && in.Tags == nil {
		in.Tags = []string{}
	}

	if err := validateInput(in, n, mode); err != nil {
		return nil, err
	}

	return in, nil
}

// Contact validates a contact form submission. Contacts are never updated, so
// there is no partial mode.
func Contact(f Fields) (*types.ContactInput, error) {
	n := newNormalizer(f)

	in := &types.ContactInput{
		Name:    n.text("name", false),
		Email:   n.text("email", false),
		Contact: n.text("contact", true),
		Address: n.text("address", true),
		Subject: n.text("subject", false),
		Message: n.text("message", false),
	}

	if err := validateInput(in, n, Create); err != nil {
		return nil, err
	}

	return in, nil
}
