package category

// Mapping ties a curated owner category to the raw category strings stored in the catalog
type Mapping struct {
	OwnerCategory string   `mapstructure:"owner_category"`
	DBCategories  []string `mapstructure:"db_categories"`
	ProductCount  int      `mapstructure:"product_count"`
	Description   *string  `mapstructure:"description"`
}

// Mapped reports whether the owner category has at least one db category
func (m Mapping) Mapped() bool {
	return len(m.DBCategories) > 0
}

func (m Mapping) clone() Mapping {
	out := m
	out.DBCategories = append([]string(nil), m.DBCategories...)
	if m.Description != nil {
		desc := *m.Description
		out.Description = &desc
	}
	return out
}

func describe(s string) *string {
	return &s
}

// DefaultMappings returns the built-in owner category table
func DefaultMappings() []Mapping {
	return []Mapping{
		{
			OwnerCategory: "Marine Locks",
			DBCategories:  []string{"Mortise Locks", "Marine Mortise Locks", "Cylinder Locks"},
			ProductCount:  142,
			Description:   describe("Corrosion-resistant mortise and cylinder locks for yacht interiors"),
		},
		{
			OwnerCategory: "Door Handles",
			DBCategories:  []string{"Lever Handles", "Handle Sets", "Rosettes"},
			ProductCount:  96,
			Description:   describe("Lever handles, rosettes and matched handle sets"),
		},
		{
			OwnerCategory: "Hinges",
			DBCategories:  []string{"Concealed Hinges", "Butt Hinges", "Piano Hinges"},
			ProductCount:  61,
			Description:   describe("Concealed, butt and continuous hinges in 316 stainless"),
		},
		{
			OwnerCategory: "Latches & Catches",
			DBCategories:  []string{"Latches", "Push Button Latches", "Magnetic Catches"},
			ProductCount:  88,
			Description:   describe("Push button latches, flush catches and magnetic holders"),
		},
		{
			OwnerCategory: "Sliding Door Hardware",
			DBCategories:  []string{"Sliding Door Locks", "Sliding Door Tracks"},
			ProductCount:  37,
			Description:   describe("Locks, pulls and track systems for pocket and sliding doors"),
		},
		{
			OwnerCategory: "Door Stops & Holders",
			DBCategories:  []string{"Door Stops", "Door Holders"},
			ProductCount:  24,
			Description:   describe("Floor and wall mounted stops and hold-backs"),
		},
		{
			OwnerCategory: "Cylinders & Keys",
			DBCategories:  []string{"Euro Profile Cylinders", "Key Blanks"},
			ProductCount:  45,
			Description:   describe("Euro profile cylinders, master key systems and blanks"),
		},
		{
			OwnerCategory: "Strike Plates",
			DBCategories:  []string{"Strike Plates", "Keeps"},
			ProductCount:  19,
		},
		{
			OwnerCategory: "Accessories",
			DBCategories:  []string{"Accessories", "Spare Parts", "Fixings"},
			ProductCount:  73,
			Description:   describe("Spindles, screws, springs and other spare parts"),
		},
		{
			OwnerCategory: "Cabinet Hardware",
			Description:   describe("Drawer pulls and cabinet locks"),
		},
		{
			OwnerCategory: "Electronic Access",
			Description:   describe("Keyless and RFID access control"),
		},
	}
}
