package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_JSONShape(t *testing.T) {
	data, err := json.Marshal(AnswerSet{
		"businessName": Text("Acme"),
		"goal":         List("Görünürlük", "Raporlama"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"businessName":"Acme","goal":["Görünürlük","Raporlama"]}`, string(data))

	var decoded AnswerSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded["goal"].IsList())
	assert.Equal(t, "Görünürlük, Raporlama", decoded.Text("goal"))
	assert.Equal(t, "Acme", decoded["businessName"].Scalar())
}

func TestValue_UnmarshalRejectsNonStrings(t *testing.T) {
	var v Value
	assert.Error(t, json.Unmarshal([]byte(`42`), &v))
	assert.Error(t, json.Unmarshal([]byte(`["a", 1]`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"a":"b"}`), &v))
}

func TestValue_Contains(t *testing.T) {
	assert.True(t, List("Havale", "İyzico/Stripe").Contains("İyzico/Stripe"))
	assert.False(t, List("Havale").Contains("İyzico/Stripe"))
	assert.True(t, Text("Evet").Contains("Evet"))
	assert.False(t, Text("Evet ").Contains("Evet"))
}

func TestValue_IsEmpty(t *testing.T) {
	assert.True(t, Text("   ").IsEmpty())
	assert.True(t, List().IsEmpty())
	assert.False(t, Text("x").IsEmpty())
	assert.False(t, List("x").IsEmpty())
}

func TestAnswerSet_CloneIsIndependent(t *testing.T) {
	orig := AnswerSet{"goal": List("a")}
	cp := orig.Clone()
	cp["goal"] = List("b")
	cp["other"] = Text("x")

	assert.Equal(t, "a", orig.Text("goal"))
	_, ok := orig["other"]
	assert.False(t, ok)
}

func TestSubmissionPayload_Accessors(t *testing.T) {
	p := SubmissionPayload{Answers: AnswerSet{
		FieldBusinessName:  Text("Acme"),
		FieldEmail:         Text("a@acme.com"),
		FieldContactPerson: Text("Ayşe"),
		FieldPhone:         Text("+90 555"),
		FieldGoal:          List("Daha fazla satış", "Görünürlük"),
	}}

	assert.Equal(t, "Acme", p.BusinessName())
	assert.Equal(t, "a@acme.com", p.ContactEmail())
	assert.Equal(t, "Ayşe", p.ContactPerson())
	assert.Equal(t, "+90 555", p.Phone())
	assert.Equal(t, "Daha fazla satış, Görünürlük", p.Goal())
}
