package shopify

// DraftOrderCreateMutation creates a draft order
const DraftOrderCreateMutation = `
mutation draftOrderCreate($input: DraftOrderInput!) {
  draftOrderCreate(input: $input) {
    draftOrder {
      id
      name
      totalPrice
    }
    userErrors {
      field
      message
    }
  }
}
`

// DraftOrderInput represents the input for creating a draft order
type DraftOrderInput struct {
	LineItems        []DraftOrderLineItemInput  `json:"lineItems"`
	Email            *string                    `json:"email,omitempty"`
	ShippingAddress  *DraftOrderAddressInput    `json:"shippingAddress,omitempty"`
	Tags             []string                   `json:"tags,omitempty"`
	Note             *string                    `json:"note,omitempty"`
	CustomAttributes []DraftOrderAttributeInput `json:"customAttributes,omitempty"`
}

type DraftOrderLineItemInput struct {
	VariantID        string                     `json:"variantId"`
	Quantity         int                        `json:"quantity"`
	AppliedDiscount  *AppliedDiscountInput      `json:"appliedDiscount,omitempty"`
	CustomAttributes []DraftOrderAttributeInput `json:"customAttributes,omitempty"`
}

// AppliedDiscountInput is a per-line discount. Value is a percentage when ValueType is PERCENTAGE.
type AppliedDiscountInput struct {
	Title     string  `json:"title,omitempty"`
	Value     float64 `json:"value"`
	ValueType string  `json:"valueType"`
}

type DraftOrderAddressInput struct {
	FirstName string  `json:"firstName"`
	LastName  *string `json:"lastName,omitempty"`
	Company   *string `json:"company,omitempty"`
	Address1  string  `json:"address1"`
	Address2  *string `json:"address2,omitempty"`
	City      string  `json:"city"`
	Province  *string `json:"province,omitempty"`
	Zip       string  `json:"zip"`
	Country   string  `json:"country"`
	Phone     *string `json:"phone,omitempty"`
}

type DraftOrderAttributeInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DiscountValueTypePercentage marks an applied discount as a percentage
const DiscountValueTypePercentage = "PERCENTAGE"
