package schema

// CoreRestaurantTable represents the 'core.restaurant' table
type CoreRestaurantTable struct {
	Table           string
	ID              string
	OwnerID         string
	Name            string
	Slug            string
	Description     string
	CuisineTypes    string
	Phone           string
	Address         string
	City            string
	Location        string
	LogoURL         string
	CoverURL        string
	GalleryURLs     string
	MenuURLs        string
	CertificateURLs string
	Status          string
	CreatedAt       string
	UpdatedAt       string
	DeletedAt       string
}

// CoreRestaurant is the schema definition for core.restaurant
var CoreRestaurant = CoreRestaurantTable{
	Table:           "core.restaurant",
	ID:              "id",
	OwnerID:         "ownerid",
	Name:            "name",
	Slug:            "slug",
	Description:     "description",
	CuisineTypes:    "cuisinetypes",
	Phone:           "phone",
	Address:         "address",
	City:            "city",
	Location:        "location",
	LogoURL:         "logourl",
	CoverURL:        "coverurl",
	GalleryURLs:     "galleryurls",
	MenuURLs:        "menuurls",
	CertificateURLs: "certificateurls",
	Status:          "status",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
	DeletedAt:       "deletedat",
}

func (t CoreRestaurantTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Name, t.Slug, t.Description, t.CuisineTypes,
		t.Phone, t.Address, t.City, t.Location, t.LogoURL, t.CoverURL,
		t.GalleryURLs, t.MenuURLs, t.CertificateURLs, t.Status,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
