package catalog

// DemoProducts is the catalog loaded on start-up when seeding is enabled.
func DemoProducts() []Fields {
	return []Fields{
		{
			Name:        "Видеокарта Palit GeForce RTX 4060 Dual",
			Category:    "Видеокарты",
			Description: "8 ГБ GDDR6, 128 бит, PCI-E 4.0, DLSS 3",
			Price:       32999,
			Stock:       14,
			Rating:      4.7,
			Image:       "https://img.example.com/products/rtx4060-dual.jpg",
		},
		{
			Name:        "Процессор AMD Ryzen 5 7600 OEM",
			Category:    "Процессоры",
			Description: "AM5, 6 ядер, 12 потоков, 3.8 ГГц",
			Price:       18499,
			Stock:       31,
			Rating:      4.8,
			Image:       "https://img.example.com/products/ryzen5-7600.jpg",
		},
		{
			Name:        "Материнская плата MSI PRO B650M-A WIFI",
			Category:    "Материнские платы",
			Description: "AM5, B650, 4xDDR5, Wi-Fi 6E, mATX",
			Price:       15999,
			Stock:       9,
			Rating:      4.6,
			Image:       "https://img.example.com/products/b650m-a.jpg",
		},
		{
			Name:        "Оперативная память Kingston FURY Beast 32 ГБ",
			Category:    "Оперативная память",
			Description: "2x16 ГБ DDR5-6000, CL36",
			Price:       10299,
			Stock:       0,
			Rating:      4.9,
			Image:       "https://img.example.com/products/fury-beast-32.jpg",
		},
		{
			Name:        "SSD Samsung 990 EVO 1 ТБ",
			Category:    "Накопители",
			Description: "M.2 2280, PCIe 5.0 x2, чтение до 5000 МБ/с",
			Price:       9499,
			Stock:       22,
			Rating:      4.5,
			Image:       "https://img.example.com/products/990-evo-1tb.jpg",
		},
		{
			Name:        "Монитор DEXP 27\" DF27N2",
			Category:    "Мониторы",
			Description: "IPS, 2560x1440, 165 Гц, 1 мс",
			Price:       21999,
			Stock:       6,
			Rating:      4.3,
			Image:       "https://img.example.com/products/df27n2.jpg",
		},
	}
}
