package sentinel2

// UserProductTypes are the user-level products distributed in SAFE
// format.
var UserProductTypes = []string{
	"MSIL1C",
	"MSIL2A",
}

// PDIProductTypes are the Product Data Item datastrip and tile
// products.
var PDIProductTypes = []string{
	"MSI_L1C_DS",
	"MSI_L1C_TL",
	"MSI_L2A_DS",
	"MSI_L2A_TL",
}

// AuxEOFProductTypes are single-file auxiliary products in Earth
// Explorer format.
var AuxEOFProductTypes = []string{
	"AUX_POEORB",
}

// AuxHdrDblProductTypes are auxiliary products split into a header and
// a data block file.
var AuxHdrDblProductTypes = []string{
	"AUX_GNSSRD",
	"AUX_PROQUA",
}

// GIPPProductTypes are Ground Image Processing Parameter products.
var GIPPProductTypes = []string{
	"GIP_ATMIMA",
	"GIP_ATMSAD",
	"GIP_BLINDP",
	"GIP_CLOINV",
	"GIP_CLOPAR",
	"GIP_CONVER",
	"GIP_DATATI",
	"GIP_DECOMP",
	"GIP_EARMOD",
	"GIP_ECMWFP",
	"GIP_G2PARA",
	"GIP_G2PARE",
	"GIP_GEOPAR",
	"GIP_INTDET",
	"GIP_INVLOC",
	"GIP_JP2KPA",
	"GIP_L2ACAC",
	"GIP_L2ACSC",
	"GIP_LREXTR",
	"GIP_MASPAR",
	"GIP_OLQCPA",
	"GIP_PRDLOC",
	"GIP_PROBA2",
	"GIP_PROBAS",
	"GIP_R2ABCA",
	"GIP_R2BINN",
	"GIP_R2CRCO",
	"GIP_R2DECT",
	"GIP_R2DEFI",
	"GIP_R2DENT",
	"GIP_R2DEPI",
	"GIP_R2EOB2",
	"GIP_R2EQOG",
	"GIP_R2L2NC",
	"GIP_R2NOMO",
	"GIP_R2PARA",
	"GIP_R2SWIR",
	"GIP_R2WAFI",
	"GIP_RESPAR",
	"GIP_SPAMOD",
	"GIP_TILPAR",
	"GIP_VIEDIR",
}

// IERSProductTypes are Earth rotation bulletins republished in Earth
// Explorer naming with a plain-text payload.
var IERSProductTypes = []string{
	"AUX_UT1UTC",
}

// ProductTypes returns all Sentinel-2 product type identifiers.
func ProductTypes() []string {
	var all []string
	all = append(all, UserProductTypes...)
	all = append(all, PDIProductTypes...)
	all = append(all, AuxEOFProductTypes...)
	all = append(all, AuxHdrDblProductTypes...)
	all = append(all, GIPPProductTypes...)
	all = append(all, IERSProductTypes...)
	return all
}

func knownProductType(productType string) bool {
	for _, pt := range ProductTypes() {
		if pt == productType {
			return true
		}
	}
	return false
}
