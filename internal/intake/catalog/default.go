package catalog

var yesNo = []string{"Evet", "Hayır"}

// Default returns the business-birth intake: 36 core questions in six groups
// plus the two closing questions, which belong to the last group.
func Default() *Catalog {
	return MustNew(defaultGroups(), defaultQuestions())
}

func defaultGroups() []Group {
	return []Group{
		{ID: "identity", Label: "KİMLİK & HEDEF", Icon: "🎯", From: 0, To: 5},
		{ID: "communication", Label: "İLETİŞİM & KANALLAR", Icon: "📡", From: 6, To: 11},
		{ID: "product", Label: "TEKLİF & FİYATLAMA", Icon: "💰", From: 12, To: 17},
		{ID: "brand", Label: "MARKA & İÇERİK", Icon: "🎨", From: 18, To: 23},
		{ID: "operation", Label: "OPERASYON & SÜREÇ", Icon: "⚙️", From: 24, To: 29},
		{ID: "setup", Label: "KURULUM & YETKİLER", Icon: "🔐", From: 30, To: 37},
	}
}

func followUp(id, label string, group int, in Input) Question {
	return Question{ID: id, Group: group, Label: label, Input: in, Required: true}
}

func defaultQuestions() []Question {
	return []Question{
		// identity
		{ID: "businessName", Group: 0, Label: "İşletme adı (resmi) / marka adı (varsa)", Input: ShortText{Placeholder: "Örn: Acme A.Ş. / Acme"}, Required: true, LogMessage: "İşletme kimliği kaydedildi"},
		{ID: "sector", Group: 0, Label: "Sektör + alt sektör", Input: ShortText{Placeholder: "Örn: Yeme-İçme > Kafe"}, Required: true, LogMessage: "Sektör tanımlandı"},
		{ID: "branches", Group: 0, Label: "Şube sayısı / hizmet bölgesi (il/ilçe)", Input: ShortText{Placeholder: "Örn: 2 şube - İstanbul/Kadıköy, Beşiktaş"}, Required: true, LogMessage: "Hizmet bölgesi eşlendi"},
		{ID: "goal", Group: 0, Label: "KÖK-OS ile ilk 30 günde ne çözmek istiyorsun?", Input: MultiSelect{Options: []string{"Daha fazla satış", "Müşteri iletişimi", "Operasyon düzeni", "Görünürlük", "Raporlama"}}, Required: true, LogMessage: "Hedefler belirlendi"},
		{ID: "digitalMaturity", Group: 0, Label: "Mevcut dijital olgunluk seviyesi", Input: SingleSelect{Options: []string{"Yok", "Temel", "Orta", "İleri"}}, Required: true, LogMessage: "Dijital olgunluk seviyesi kaydedildi"},
		{ID: "contactPerson", Group: 0, Label: "Onaylı iletişim kişisi (ad-soyad, rol)", Input: ShortText{Placeholder: "Örn: Ahmet Yılmaz, Operasyon Müdürü"}, Required: true, LogMessage: "İletişim kişisi tanımlandı"},

		// communication
		{ID: "phone", Group: 1, Label: "Telefon numarası", Input: ShortText{Placeholder: "+90 5XX XXX XX XX"}, Required: true, LogMessage: "Telefon kaydedildi"},
		{
			ID: "whatsappActive", Group: 1, Label: "WhatsApp aktif mi?", Input: SingleSelect{Options: yesNo}, Required: true, LogMessage: "WhatsApp durumu işaretlendi",
			Conditional: &Conditional{
				Trigger: EqualsLiteral{Value: "Evet"},
				FollowUps: []Question{
					followUp("whatsappBusiness", "WhatsApp Business hesabı var mı?", 1, SingleSelect{Options: yesNo}),
					followUp("whatsappCatalog", "WhatsApp katalog kullanılıyor mu?", 1, SingleSelect{Options: yesNo}),
				},
			},
		},
		{ID: "email", Group: 1, Label: "E-posta adresi", Input: ShortText{Placeholder: "ornek@sirket.com"}, Required: true, LogMessage: "E-posta kaydedildi"},
		{ID: "emailCorporate", Group: 1, Label: "E-posta kurumsal mı?", Input: SingleSelect{Options: yesNo}, LogMessage: "E-posta tipi belirlendi"},
		{ID: "instagram", Group: 1, Label: "Instagram kullanıcı adı", Input: ShortText{Placeholder: `@kullaniciadi veya "yok"`}, Skippable: true, LogMessage: "Instagram bağlandı"},
		{
			ID: "googleBusiness", Group: 1, Label: "Google Business Profile var mı?", Input: ShortText{Placeholder: `Link veya "yok"`}, Skippable: true, LogMessage: "Google Business eşlendi",
			Conditional: &Conditional{
				Trigger: NonEmptyAndNotNegative{},
				FollowUps: []Question{
					followUp("googleOwnerAccess", "Profil erişimi (owner) sizde mi?", 1, SingleSelect{Options: []string{"Evet", "Hayır", "Bilmiyorum"}}),
				},
			},
		},

		// product
		{
			ID: "website", Group: 2, Label: "Mevcut web sitesi var mı?", Input: ShortText{Placeholder: `Domain + sağlayıcı veya "yok"`}, Skippable: true, LogMessage: "Web sitesi durumu kaydedildi",
			Conditional: &Conditional{
				Trigger: NonEmptyAndNotNegative{},
				FollowUps: []Question{
					followUp("hostingAccess", "Hosting panel erişimi kimde?", 2, SingleSelect{Options: []string{"Ben", "Ajans", "Bilmiyorum"}}),
					followUp("cmsType", "CMS tipi nedir?", 2, ShortText{Placeholder: "WordPress, Shopify, vb."}),
				},
			},
		},
		{ID: "leadSource", Group: 2, Label: "Müşteri talepleri şu an nereden geliyor?", Input: MultiSelect{Options: []string{"WhatsApp", "Arama", "DM", "Web", "Fiziksel", "Karışık"}}, Required: true, LogMessage: "Talep kaynakları eşlendi"},
		{ID: "products", Group: 2, Label: "Sattığınız ana ürün/hizmet listesi (en fazla 10)", Input: LongText{Placeholder: "Her satıra bir ürün/hizmet yazın"}, Required: true, LogMessage: "Ürün/hizmet listesi oluşturuldu"},
		{ID: "pricingType", Group: 2, Label: "Her biri için: fiyat aralığı mı sabit fiyat mı?", Input: SingleSelect{Options: []string{"Sabit fiyat", "Fiyat aralığı", "Karışık"}}, Required: true, LogMessage: "Fiyatlama modeli belirlendi"},
		{ID: "stockType", Group: 2, Label: "Stok/kapasite durumu", Input: SingleSelect{Options: []string{"Stoklu ürün", "Randevulu hizmet", "Üretim", "Karışık"}}, Required: true, LogMessage: "Stok/kapasite tipi kaydedildi"},
		{ID: "orderFlow", Group: 2, Label: "Sipariş/rezervasyon çalışma şekli", Input: SingleSelect{Options: []string{"Aynı gün", "24 saat", "Haftalık", "Randevu"}}, Required: true, LogMessage: "Sipariş akışı tanımlandı"},

		// brand
		{ID: "deliveryArea", Group: 3, Label: "Teslimat/servis alanı ve koşulları", Input: LongText{Placeholder: "Teslimat bölgeleri, süreleri, koşulları..."}, Skippable: true, LogMessage: "Teslimat koşulları kaydedildi"},
		{ID: "faq", Group: 3, Label: "Sık sorulan 10 soru + standart cevaplar (varsa)", Input: LongText{Placeholder: "S: Soru?\nC: Cevap\n\nS: Başka soru?\nC: Cevabı..."}, Skippable: true, LogMessage: "SSS veritabanı oluşturuldu"},
		{ID: "logo", Group: 3, Label: "Logo var mı?", Input: ShortText{Placeholder: `Dosya/link veya "yok"`}, Skippable: true, LogMessage: "Logo durumu kaydedildi"},
		{ID: "brandColors", Group: 3, Label: "Renkler / fontlar (biliyorsa)", Input: ShortText{Placeholder: "Örn: #c8ff00, Inter font"}, Skippable: true, LogMessage: "Marka görsel kimliği kaydedildi"},
		{ID: "brandTone", Group: 3, Label: "Marka dili", Input: SingleSelect{Options: []string{"Resmi", "Samimi", "Premium", "Genç"}}, Required: true, LogMessage: "Marka tonu belirlendi"},
		{ID: "competitors", Group: 3, Label: "3 rakip işletme (link veya isim)", Input: LongText{Placeholder: "Her satıra bir rakip..."}, Skippable: true, LogMessage: "Rakip analizi için veri alındı"},

		// operation
		{ID: "inspirations", Group: 4, Label: "3 örnek beğendiğiniz web/instagram hesabı (link)", Input: LongText{Placeholder: "Her satıra bir örnek..."}, Skippable: true, LogMessage: "İlham kaynakları kaydedildi"},
		{ID: "contentOwner", Group: 4, Label: "İçerik üretimi sorumlusu kim?", Input: SingleSelect{Options: []string{"İç ekip", "Dış ajans", "Yok"}}, Required: true, LogMessage: "İçerik sorumluluğu tanımlandı"},
		{ID: "workingHours", Group: 4, Label: "Günlük çalışma saatleri + yoğun saatler", Input: ShortText{Placeholder: "Örn: 09:00-18:00, yoğun: 12:00-14:00"}, Required: true, LogMessage: "Çalışma saatleri eşlendi"},
		{ID: "teamStructure", Group: 4, Label: "Ekip yapısı: kaç kişi, roller", Input: LongText{Placeholder: "Örn: 5 kişi - 2 satış, 2 operasyon, 1 yönetici"}, Required: true, LogMessage: "Ekip yapısı haritalandı"},
		{ID: "customerProcess", Group: 4, Label: "Müşteri süreci şu an nasıl ilerliyor?", Input: LongText{Placeholder: "Talep -> Teklif -> Ödeme -> Teslim -> Sonrası"}, Required: true, LogMessage: "Müşteri yolculuğu çıkarıldı"},
		{ID: "complaints", Group: 4, Label: "Şikayet/iadeler süreci var mı?", Input: LongText{Placeholder: `Süreç açıklaması veya "yok"`}, Skippable: true, LogMessage: "Şikayet süreci kaydedildi"},

		// setup
		{ID: "currentTools", Group: 5, Label: "Kullanılan araçlar", Input: MultiSelect{Options: []string{"Excel", "WhatsApp", "POS", "ERP", "Muhasebe yazılımı", "Yok"}}, Required: true, LogMessage: "Mevcut araçlar tarandı"},
		{ID: "reportingNeeds", Group: 5, Label: "Raporlama ihtiyacı", Input: SingleSelect{Options: []string{"Günlük satış", "Haftalık", "Aylık", "Hiç"}}, Required: true, LogMessage: "Raporlama sıklığı belirlendi"},
		{ID: "domainAccess", Group: 5, Label: "Domain/DNS erişimi kimde?", Input: SingleSelect{Options: []string{"Ben", "Ajans", "Bilmiyorum"}}, Required: true, LogMessage: "Domain erişimi tanımlandı"},
		{ID: "metaAccess", Group: 5, Label: "Meta Business / Instagram erişimi var mı?", Input: SingleSelect{Options: []string{"Var", "Yok", "Bilmiyorum"}}, Required: true, LogMessage: "Meta erişimi kontrol edildi"},
		{ID: "googleAccess", Group: 5, Label: "Google erişimi (Analytics, Search Console, Business Profile) var mı?", Input: SingleSelect{Options: []string{"Var", "Yok", "Bilmiyorum"}}, Required: true, LogMessage: "Google erişimleri kontrol edildi"},
		{
			ID: "paymentNeeds", Group: 5, Label: "Ödeme altyapısı isteniyor mu?", Input: MultiSelect{Options: []string{"Havale", "Link ile ödeme", "İyzico/Stripe", "Kapıda ödeme", "İstemiyorum"}}, Required: true, LogMessage: "Ödeme gereksinimleri belirlendi",
			Conditional: &Conditional{
				Trigger: ContainsLiteral{Value: "İyzico/Stripe"},
				FollowUps: []Question{
					followUp("paymentProvider", "Tercih edilen ödeme sağlayıcı", 5, ShortText{Placeholder: "İyzico, Stripe, PayTR..."}),
					followUp("invoiceNeeds", "E-fatura entegrasyonu gerekli mi?", 5, SingleSelect{Options: yesNo}),
				},
			},
		},
		{ID: "kvkk", Group: 5, Label: "KVKK / izin metinleri hazır mı?", Input: SingleSelect{Options: []string{"Var", "Yok", "Bilmiyorum"}}, Required: true, LogMessage: "KVKK durumu kaydedildi"},
		{ID: "communicationPrefs", Group: 5, Label: "Kurulum iletişim tercihleri", Input: MultiSelect{Options: []string{"WhatsApp grup", "E-posta", "Haftalık toplantı"}}, Required: true, LogMessage: "İletişim tercihleri belirlendi"},
	}
}
