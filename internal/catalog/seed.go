package catalog

const imageBase = "https://fdn2.gsmarena.com/vv/bigpic/"

// seedProducts is the built-in phone table backing the static source.
var seedProducts = []ProductDetail{
	{
		ProductRef: ProductRef{ID: "iphone-14-pro", Name: "iPhone 14 Pro", Image: imageBase + "apple-iphone-14-pro.jpg", Brand: "Apple"},
		Specs: Specs{
			SpecDisplay:   "6.1 inches, 1179 x 2556 pixels, LTPO Super Retina XDR OLED",
			SpecBattery:   "3200 mAh",
			SpecRAM:       "6 GB",
			SpecCamera:    "48 MP",
			SpecProcessor: "Apple A16 Bionic",
			SpecStorage:   "128/256/512GB/1TB",
			SpecOS:        "iOS 16",
		},
	},
	{
		ProductRef: ProductRef{ID: "iphone-14", Name: "iPhone 14", Image: imageBase + "apple-iphone-14.jpg", Brand: "Apple"},
		Specs: Specs{
			SpecDisplay:   "6.1 inches, 1170 x 2532 pixels, Super Retina XDR OLED",
			SpecBattery:   "3279 mAh",
			SpecRAM:       "6 GB",
			SpecCamera:    "12 MP",
			SpecProcessor: "Apple A15 Bionic",
			SpecStorage:   "128/256/512GB",
			SpecOS:        "iOS 16",
		},
	},
	{
		ProductRef: ProductRef{ID: "iphone-13-pro", Name: "iPhone 13 Pro", Image: imageBase + "apple-iphone-13-pro.jpg", Brand: "Apple"},
		Specs: Specs{
			SpecDisplay:   "6.1 inches, 1170 x 2532 pixels, Super Retina XDR OLED",
			SpecBattery:   "3095 mAh",
			SpecRAM:       "6 GB",
			SpecCamera:    "12 MP",
			SpecProcessor: "Apple A15 Bionic",
			SpecStorage:   "128/256/512GB/1TB",
			SpecOS:        "iOS 15",
		},
	},
	{
		ProductRef: ProductRef{ID: "samsung-galaxy-s23-ultra", Name: "Samsung Galaxy S23 Ultra", Image: imageBase + "samsung-galaxy-s23-ultra-5g.jpg", Brand: "Samsung"},
		Specs: Specs{
			SpecDisplay:   "6.8 inches, 1440 x 3088 pixels, Dynamic AMOLED 2X",
			SpecBattery:   "5000 mAh",
			SpecRAM:       "12 GB",
			SpecCamera:    "200 MP",
			SpecProcessor: "Qualcomm Snapdragon 8 Gen 2",
			SpecStorage:   "256/512GB/1TB",
			SpecOS:        "Android 13, One UI 5.1",
		},
	},
	{
		ProductRef: ProductRef{ID: "samsung-galaxy-s23", Name: "Samsung Galaxy S23", Image: imageBase + "samsung-galaxy-s23-5g.jpg", Brand: "Samsung"},
		Specs: Specs{
			SpecDisplay:   "6.1 inches, 1080 x 2340 pixels, Dynamic AMOLED 2X",
			SpecBattery:   "3900 mAh",
			SpecRAM:       "8 GB",
			SpecCamera:    "50 MP",
			SpecProcessor: "Qualcomm Snapdragon 8 Gen 2",
			SpecStorage:   "128/256GB",
			SpecOS:        "Android 13, One UI 5.1",
		},
	},
	{
		ProductRef: ProductRef{ID: "google-pixel-7-pro", Name: "Google Pixel 7 Pro", Image: imageBase + "google-pixel7-pro-new.jpg", Brand: "Google"},
		Specs: Specs{
			SpecDisplay:   "6.7 inches, 1440 x 3120 pixels, LTPO AMOLED",
			SpecBattery:   "5000 mAh",
			SpecRAM:       "12 GB",
			SpecCamera:    "50 MP",
			SpecProcessor: "Google Tensor G2",
			SpecStorage:   "128/256/512GB",
			SpecOS:        "Android 13",
		},
	},
	{
		ProductRef: ProductRef{ID: "google-pixel-7", Name: "Google Pixel 7", Image: imageBase + "google-pixel7-new.jpg", Brand: "Google"},
		Specs: Specs{
			SpecDisplay:   "6.3 inches, 1080 x 2400 pixels, AMOLED",
			SpecBattery:   "4355 mAh",
			SpecRAM:       "8 GB",
			SpecCamera:    "50 MP",
			SpecProcessor: "Google Tensor G2",
			SpecStorage:   "128/256GB",
			SpecOS:        "Android 13",
		},
	},
	{
		ProductRef: ProductRef{ID: "xiaomi-13-pro", Name: "Xiaomi 13 Pro", Image: imageBase + "xiaomi-13-pro.jpg", Brand: "Xiaomi"},
		Specs: Specs{
			SpecDisplay:   "6.73 inches, 1440 x 3200 pixels, LTPO AMOLED",
			SpecBattery:   "4820 mAh",
			SpecRAM:       "12 GB",
			SpecCamera:    "50 MP",
			SpecProcessor: "Qualcomm Snapdragon 8 Gen 2",
			SpecStorage:   "256/512GB",
			SpecOS:        "Android 13, MIUI 14",
		},
	},
	{
		ProductRef: ProductRef{ID: "realme-gt-5-pro", Name: "Realme GT 5 Pro", Image: imageBase + "realme-gt5-pro.jpg", Brand: "Realme"},
		Specs: Specs{
			SpecDisplay:   "6.78 inches, 1264 x 2780 pixels, LTPO AMOLED",
			SpecBattery:   "5400 mAh",
			SpecRAM:       "12/16 GB",
			SpecCamera:    "50 MP",
			SpecProcessor: "Qualcomm Snapdragon 8 Gen 3",
			SpecStorage:   "256/512GB/1TB",
			SpecOS:        "Android 14, Realme UI",
		},
	},
	{
		ProductRef: ProductRef{ID: "oneplus-12", Name: "OnePlus 12", Image: imageBase + "oneplus-12.jpg", Brand: "OnePlus"},
		Specs: Specs{
			SpecDisplay:   "6.82 inches, 1440 x 3168 pixels, LTPO AMOLED",
			SpecBattery:   "5400 mAh",
			SpecRAM:       "12/16/24 GB",
			SpecCamera:    "50 MP",
			SpecProcessor: "Qualcomm Snapdragon 8 Gen 3",
			SpecStorage:   "256/512GB/1TB",
			SpecOS:        "Android 14, OxygenOS 14",
		},
	},
	{
		ProductRef: ProductRef{ID: "vivo-x100-pro", Name: "Vivo X100 Pro", Image: imageBase + "vivo-x100-pro.jpg", Brand: "Vivo"},
		Specs: Specs{
			SpecDisplay:   "6.78 inches, 1260 x 2800 pixels, LTPO AMOLED",
			SpecBattery:   "5400 mAh",
			SpecRAM:       "12/16 GB",
			SpecCamera:    "50 MP",
			SpecProcessor: "MediaTek Dimensity 9300",
			SpecStorage:   "256/512GB/1TB",
			SpecOS:        "Android 14, Funtouch OS 14",
		},
	},
	{
		ProductRef: ProductRef{ID: "iqoo-12", Name: "iQOO 12", Image: imageBase + "iqoo-12.jpg", Brand: "iQOO"},
		Specs: Specs{
			SpecDisplay:   "6.78 inches, 1440 x 3200 pixels, LTPO AMOLED",
			SpecBattery:   "5000 mAh",
			SpecRAM:       "12/16 GB",
			SpecCamera:    "50 MP",
			SpecProcessor: "Qualcomm Snapdragon 8 Gen 3",
			SpecStorage:   "256/512GB/1TB",
			SpecOS:        "Android 14, Funtouch OS 14",
		},
	},
	{
		ProductRef: ProductRef{ID: "motorola-edge-50-ultra", Name: "Motorola Edge 50 Ultra", Image: imageBase + "motorola-edge-50-ultra.jpg", Brand: "Motorola"},
		Specs: Specs{
			SpecDisplay:   "6.7 inches, 1220 x 2712 pixels, LTPO OLED",
			SpecBattery:   "4500 mAh",
			SpecRAM:       "12/16 GB",
			SpecCamera:    "50 MP",
			SpecProcessor: "Qualcomm Snapdragon 8s Gen 3",
			SpecStorage:   "512GB/1TB",
			SpecOS:        "Android 14",
		},
	},
	{
		ProductRef: ProductRef{ID: "nothing-phone-2", Name: "Nothing Phone (2)", Image: imageBase + "nothing-phone-2.jpg", Brand: "Nothing"},
		Specs: Specs{
			SpecDisplay:   "6.7 inches, 1080 x 2412 pixels, LTPO OLED",
			SpecBattery:   "4700 mAh",
			SpecRAM:       "8/12 GB",
			SpecCamera:    "50 MP",
			SpecProcessor: "Qualcomm Snapdragon 8+ Gen 1",
			SpecStorage:   "128/256/512GB",
			SpecOS:        "Android 13, Nothing OS 2.0",
		},
	},
	{
		ProductRef: ProductRef{ID: "samsung-galaxy-s22-ultra", Name: "Samsung Galaxy S22 Ultra", Image: imageBase + "samsung-galaxy-s22-ultra-5g.jpg", Brand: "Samsung"},
		Specs: Specs{
			SpecDisplay:   "6.8 inches, 1440 x 3088 pixels, Dynamic AMOLED 2X",
			SpecBattery:   "5000 mAh",
			SpecRAM:       "8/12 GB",
			SpecCamera:    "108 MP",
			SpecProcessor: "Exynos 2200 / Qualcomm Snapdragon 8 Gen 1",
			SpecStorage:   "128/256/512GB/1TB",
			SpecOS:        "Android 12, One UI 4.1",
		},
	},
	{
		ProductRef: ProductRef{ID: "samsung-galaxy-s22-plus", Name: "Samsung Galaxy S22+", Image: imageBase + "samsung-galaxy-s22-plus-5g.jpg", Brand: "Samsung"},
		Specs: Specs{
			SpecDisplay:   "6.6 inches, 1080 x 2340 pixels, Dynamic AMOLED 2X",
			SpecBattery:   "4500 mAh",
			SpecRAM:       "8 GB",
			SpecCamera:    "50 MP",
			SpecProcessor: "Exynos 2200 / Qualcomm Snapdragon 8 Gen 1",
			SpecStorage:   "128/256GB",
			SpecOS:        "Android 12, One UI 4.1",
		},
	},
	{
		ProductRef: ProductRef{ID: "samsung-galaxy-s22", Name: "Samsung Galaxy S22", Image: imageBase + "samsung-galaxy-s22-5g.jpg", Brand: "Samsung"},
		Specs: Specs{
			SpecDisplay:   "6.1 inches, 1080 x 2340 pixels, Dynamic AMOLED 2X",
			SpecBattery:   "3700 mAh",
			SpecRAM:       "8 GB",
			SpecCamera:    "50 MP",
			SpecProcessor: "Exynos 2200 / Qualcomm Snapdragon 8 Gen 1",
			SpecStorage:   "128/256GB",
			SpecOS:        "Android 12, One UI 4.1",
		},
	},
}

// seedTrending lists the curated trending ids, most popular first.
var seedTrending = []string{
	"samsung-galaxy-s23-ultra",
	"iphone-14-pro",
	"oneplus-12",
	"google-pixel-7-pro",
}

// fallbackTrendingIDs is the minimal set served when no source can produce
// trending phones.
var fallbackTrendingIDs = []string{
	"iphone-14-pro",
	"samsung-galaxy-s23-ultra",
	"google-pixel-7-pro",
	"xiaomi-13-pro",
}

// SeedProducts returns a copy of the built-in phone table.
func SeedProducts() []ProductDetail {
	out := make([]ProductDetail, len(seedProducts))
	for i, p := range seedProducts {
		out[i] = cloneDetail(p)
	}
	return out
}

// FallbackTrending returns the hardcoded trending set.
func FallbackTrending() []ProductDetail {
	byID := make(map[string]ProductDetail, len(seedProducts))
	for _, p := range seedProducts {
		byID[p.ID] = p
	}
	out := make([]ProductDetail, 0, len(fallbackTrendingIDs))
	for _, id := range fallbackTrendingIDs {
		if p, ok := byID[id]; ok {
			out = append(out, cloneDetail(p))
		}
	}
	return out
}

func cloneDetail(p ProductDetail) ProductDetail {
	if p.Specs != nil {
		specs := make(Specs, len(p.Specs))
		for k, v := range p.Specs {
			specs[k] = v
		}
		p.Specs = specs
	}
	return p
}
