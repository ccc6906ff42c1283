package constants

// Crop types recognized by the registration flow (must match the wizard's
// crop selector options).
const (
	CropCoffee    = "Café"
	CropCorn      = "Maíz"
	CropWheat     = "Trigo"
	CropAvocado   = "Aguacate"
	CropSugarcane = "Caña de azúcar"
	CropSorghum   = "Sorgo"
	CropBeans     = "Frijol"
)

// ValidCropTypes is the set of allowed values for Lots.crop_type.
var ValidCropTypes = []string{
	CropCoffee, CropCorn, CropWheat, CropAvocado, CropSugarcane, CropSorghum, CropBeans,
}

// IsValidCropType returns true if cropType is one of the allowed values.
func IsValidCropType(cropType string) bool {
	for _, c := range ValidCropTypes {
		if c == cropType {
			return true
		}
	}
	return false
}
