package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kokos-intake/internal/models"
)

func names(cs []Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func TestBuild_MinimalAnswers(t *testing.T) {
	s := Build(models.AnswerSet{}, models.ConditionalAnswerSet{})

	assert.Equal(t, []string{"Google Sheets CRM Sync"}, names(s.AutomationCandidates))
	assert.Equal(t, []string{
		"Web sitesi kurulumu",
		"Logo tasarımı",
		"Ürün/hizmet kataloğu düzenleme",
		"SSS içeriklerini sisteme aktarma",
	}, s.Checklist)
}

func TestBuild_FullyConnectedBusiness(t *testing.T) {
	answers := models.AnswerSet{
		"businessName":   models.Text("Kök Kahve"),
		"leadSource":     models.List("DM", "WhatsApp"),
		"goal":           models.List("Müşteri iletişimi"),
		"orderFlow":      models.Text("Randevu"),
		"instagram":      models.Text("@kokkahve"),
		"googleBusiness": models.Text("https://g.page/kok"),
		"website":        models.Text("kokkahve.com"),
		"logo":           models.Text("logo.svg"),
		"kvkk":           models.Text("Var"),
		"whatsappActive": models.Text("Evet"),
		"metaAccess":     models.Text("Var"),
		"domainAccess":   models.Text("Ben"),
	}
	conditional := models.ConditionalAnswerSet{"whatsappBusiness": models.Text("Evet")}

	s := Build(answers, conditional)

	assert.Equal(t, "Kök Kahve", s.BusinessName)
	assert.Equal(t, []string{
		"WhatsApp Otomatik Yanıt",
		"WhatsApp Bildirimler",
		"Lead Capture Routing",
		"Randevu Hatırlatıcı",
		"İçerik Takvimi",
		"Yorum İstek Otomasyonu",
		"Google Sheets CRM Sync",
	}, names(s.AutomationCandidates))
	assert.Equal(t, []string{"Ürün/hizmet kataloğu düzenleme", "SSS içeriklerini sisteme aktarma"}, s.Checklist)
}

func TestBuild_ChecklistRules(t *testing.T) {
	answers := models.AnswerSet{
		"website":        models.Text("yok"),
		"logo":           models.Text(models.Missing),
		"kvkk":           models.Text("Bilmiyorum"),
		"whatsappActive": models.Text("Evet"),
		"googleBusiness": models.Text("yok"),
		"metaAccess":     models.Text("Yok"),
		"domainAccess":   models.Text("Bilmiyorum"),
		"instagram":      models.Text(models.Missing),
	}
	conditional := models.ConditionalAnswerSet{"whatsappBusiness": models.Text("Hayır")}

	s := Build(answers, conditional)

	assert.Equal(t, []string{
		"Web sitesi kurulumu",
		"Logo tasarımı",
		"KVKK metinleri hazırlama",
		"WhatsApp Business kurulumu",
		"Google Business Profile oluşturma",
		"Meta Business Suite erişimi sağlama",
		"Domain erişim bilgilerini edinme",
		"Ürün/hizmet kataloğu düzenleme",
		"SSS içeriklerini sisteme aktarma",
	}, s.Checklist)
	assert.NotContains(t, names(s.AutomationCandidates), "İçerik Takvimi")
	assert.NotContains(t, names(s.AutomationCandidates), "Yorum İstek Otomasyonu")
}

func TestBuild_NoLinkLiteralIsExact(t *testing.T) {
	s := Build(models.AnswerSet{
		"instagram": models.Text("Yok"),
		"website":   models.Text("Yok"),
		"logo":      models.Text("yok"),
	}, nil)

	assert.Contains(t, names(s.AutomationCandidates), "İçerik Takvimi")
	assert.NotContains(t, s.Checklist, "Web sitesi kurulumu")
	assert.Contains(t, s.Checklist, "Logo tasarımı")
}
