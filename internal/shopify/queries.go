package shopify

// ProductsQuery pages through products with the variant fields the catalog snapshot needs.
// minimum_quantity and quantity_increments are read from the b2b metafield namespace.
const ProductsQuery = `
query getProducts($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        title
        productType
        status
        minimumQuantity: metafield(namespace: "b2b", key: "minimum_quantity") {
          value
        }
        quantityIncrements: metafield(namespace: "b2b", key: "quantity_increments") {
          value
        }
        variants(first: 250) {
          edges {
            node {
              id
              sku
              title
              price
              availableForSale
              inventoryQuantity
            }
          }
        }
      }
    }
  }
}
`

// VariantBySKUQuery looks a single variant up through the search syntax
const VariantBySKUQuery = `
query getVariantBySKU($query: String!) {
  productVariants(first: 1, query: $query) {
    edges {
      node {
        id
        sku
        title
        price
        availableForSale
        inventoryQuantity
        product {
          id
          title
          productType
          status
        }
      }
    }
  }
}
`
