// ABOUTME: Version information for opuscp
// ABOUTME: Product, manufacturer and version reported in server/hello
package version

const (
	// Version is the release version
	Version = "0.3.0"

	// Product is the product name
	Product = "opuscp"

	// Manufacturer is reported to clients alongside the product
	Manufacturer = "ospx"
)

// String returns "product/version"
func String() string {
	return Product + "/" + Version
}
