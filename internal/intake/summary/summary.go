// Package summary derives the setup overview shown once an intake is
// complete: automations worth proposing and the tasks still open before the
// system can be installed.
package summary

import (
	"strings"

	"kokos-intake/internal/models"
)

// Candidate is an automation suggested for the business.
type Candidate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Summary is the setup overview for one intake.
type Summary struct {
	BusinessName         string      `json:"businessName"`
	AutomationCandidates []Candidate `json:"automationCandidates"`
	Checklist            []string    `json:"checklist"`
}

// Build evaluates the summary rules against a completed answer set. Skipped
// answers count as not provided.
func Build(answers models.AnswerSet, conditional models.ConditionalAnswerSet) Summary {
	return Summary{
		BusinessName:         provided(answers, models.FieldBusinessName),
		AutomationCandidates: automations(answers),
		Checklist:            checklist(answers, conditional),
	}
}

func automations(a models.AnswerSet) []Candidate {
	var out []Candidate

	if a["leadSource"].Contains("WhatsApp") || a["whatsappActive"].Scalar() == "Evet" {
		out = append(out,
			Candidate{"WhatsApp Otomatik Yanıt", "Gelen mesajlara otomatik hoşgeldin yanıtı"},
			Candidate{"WhatsApp Bildirimler", "Yeni sipariş/talep bildirimleri"},
		)
	}
	if a["goal"].Contains("Müşteri iletişimi") {
		out = append(out, Candidate{"Lead Capture Routing", "Talepleri otomatik yönlendirme"})
	}
	if a["orderFlow"].Scalar() == "Randevu" {
		out = append(out, Candidate{"Randevu Hatırlatıcı", "Otomatik SMS/WhatsApp hatırlatma"})
	}
	if linked(a, "instagram") {
		out = append(out, Candidate{"İçerik Takvimi", "Otomatik içerik planlama önerileri"})
	}
	if linked(a, "googleBusiness") {
		out = append(out, Candidate{"Yorum İstek Otomasyonu", "Müşterilerden yorum isteme"})
	}

	return append(out, Candidate{"Google Sheets CRM Sync", "Talep verilerini otomatik senkronize et"})
}

func checklist(a models.AnswerSet, c models.ConditionalAnswerSet) []string {
	var out []string

	if !linked(a, "website") {
		out = append(out, "Web sitesi kurulumu")
	}
	if !linked(a, "logo") {
		out = append(out, "Logo tasarımı")
	}
	if kvkk := a["kvkk"].Scalar(); kvkk == "Yok" || kvkk == "Bilmiyorum" {
		out = append(out, "KVKK metinleri hazırlama")
	}
	if a["whatsappActive"].Scalar() == "Evet" && c["whatsappBusiness"].Scalar() == "Hayır" {
		out = append(out, "WhatsApp Business kurulumu")
	}
	if a["googleBusiness"].Scalar() == "yok" {
		out = append(out, "Google Business Profile oluşturma")
	}
	if a["metaAccess"].Scalar() == "Yok" {
		out = append(out, "Meta Business Suite erişimi sağlama")
	}
	if a["domainAccess"].Scalar() == "Bilmiyorum" {
		out = append(out, "Domain erişim bilgilerini edinme")
	}

	return append(out, "Ürün/hizmet kataloğu düzenleme", "SSS içeriklerini sisteme aktarma")
}

// provided returns the trimmed answer text, or "" when it was skipped or
// never given.
func provided(a models.AnswerSet, id string) string {
	v, ok := a[id]
	if !ok || v.IsEmpty() {
		return ""
	}
	s := strings.TrimSpace(v.String())
	if s == models.Missing {
		return ""
	}
	return s
}

// linked reports a free-text "link or yok" answer that names something. The
// "yok" literal is matched exactly, as the conditional triggers do.
func linked(a models.AnswerSet, id string) bool {
	s := provided(a, id)
	return s != "" && s != "yok"
}
