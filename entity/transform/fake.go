package transform

import (
	"fmt"
	"sort"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/zeebo/xxh3"
)

// FakeValueConfig replaces a value with a synthetic one of the same category
// (name, phone number, city, ...). The replacement is derived from a seeded
// generator keyed by hash(seed, value), so an identical (seed, source value)
// pair always yields the identical fake value, across records, calls and
// process restarts. This consistency is the point: the same source value can be
// re-mapped the same way in a whole dataset without a persisted lookup table.
// Not restorable.
//
// Method selects the fake category for field-level use. For entity-level use
// (Labels set), the category is derived from the matched entity label instead,
// and all labels must be ones that map to a fake category.
type FakeValueConfig struct {
	Labels       []string
	MinimumScore *float64
	Seed         uint64
	Method       string
}

// fakeMethods holds the available fake value categories.
var fakeMethods = map[string]func(f *gofakeit.Faker) any{
	"name":        func(f *gofakeit.Faker) any { return f.Name() },
	"first_name":  func(f *gofakeit.Faker) any { return f.FirstName() },
	"last_name":   func(f *gofakeit.Faker) any { return f.LastName() },
	"email":       func(f *gofakeit.Faker) any { return f.Email() },
	"phone":       func(f *gofakeit.Faker) any { return f.Phone() },
	"city":        func(f *gofakeit.Faker) any { return f.City() },
	"state":       func(f *gofakeit.Faker) any { return f.State() },
	"zip":         func(f *gofakeit.Faker) any { return f.Zip() },
	"country":     func(f *gofakeit.Faker) any { return f.Country() },
	"street":      func(f *gofakeit.Faker) any { return f.Street() },
	"company":     func(f *gofakeit.Faker) any { return f.Company() },
	"user_name":   func(f *gofakeit.Faker) any { return f.Username() },
	"url":         func(f *gofakeit.Faker) any { return f.URL() },
	"domain_name": func(f *gofakeit.Faker) any { return f.DomainName() },
	"ip_address":  func(f *gofakeit.Faker) any { return f.IPv4Address() },
	"ssn":         func(f *gofakeit.Faker) any { return f.SSN() },
	"credit_card": func(f *gofakeit.Faker) any { return f.CreditCardNumber(nil) },
	"latitude":    func(f *gofakeit.Faker) any { return f.Latitude() },
	"longitude":   func(f *gofakeit.Faker) any { return f.Longitude() },
}

// labelMethods maps entity labels from the labeling service to fake categories.
var labelMethods = map[string]string{
	"person_name":               "name",
	"first_name":                "first_name",
	"last_name":                 "last_name",
	"email_address":             "email",
	"phone_number":              "phone",
	"city":                      "city",
	"us_state":                  "state",
	"us_zip_code":               "zip",
	"country":                   "country",
	"street_address":            "street",
	"company_name":              "company",
	"user_name":                 "user_name",
	"url":                       "url",
	"domain_name":               "domain_name",
	"ip_address":                "ip_address",
	"us_social_security_number": "ssn",
	"credit_card_number":        "credit_card",
	"latitude":                  "latitude",
	"longitude":                 "longitude",
}

// FakeableLabels returns the entity labels that can be faked, sorted.
func FakeableLabels() []string {
	labels := make([]string, 0, len(labelMethods))
	for l := range labelMethods {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

func (c FakeValueConfig) Build() (Unit, error) {
	if len(c.Labels) > 0 {
		for _, l := range c.Labels {
			if _, ok := labelMethods[l]; !ok {
				return nil, fmt.Errorf("%w: label %q has no fake category, must be one of %v",
					ErrInvalidConfig, l, FakeableLabels())
			}
		}
	} else {
		if _, ok := fakeMethods[c.Method]; !ok {
			return nil, fmt.Errorf("%w: unknown fake method %q", ErrInvalidConfig, c.Method)
		}
	}
	return &fakeValue{
		unitBase: newUnitBase(c.Labels, c.MinimumScore),
		seed:     c.Seed,
		method:   c.Method,
	}, nil
}

type fakeValue struct {
	unitBase
	seed   uint64
	method string
}

func (u *fakeValue) Kind() Kind {
	return KindFakeValue
}

func (u *fakeValue) Apply(value any, fc FieldContext) (any, bool, error) {
	s, err := valueString(value)
	if err != nil {
		return nil, false, err
	}

	method := u.method
	if len(u.labels) > 0 {
		label, ok := u.matchedLabel(fc.Meta)
		if !ok {
			return value, true, nil
		}
		method = labelMethods[label.Name]
	}
	gen, ok := fakeMethods[method]
	if !ok {
		return value, true, nil
	}

	// A fresh generator per call, keyed by (seed, value), keeps the unit
	// stateless and the mapping deterministic.
	faker := gofakeit.New(xxh3.HashStringSeed(s, u.seed))
	return gen(faker), true, nil
}
