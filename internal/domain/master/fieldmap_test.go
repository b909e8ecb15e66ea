package master

import (
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/nbfc/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_Title(t *testing.T) {
	assert.Equal(t, "Area Name", Field{Form: "area-name"}.Title())
	assert.Equal(t, "Tenure Months", Field{Form: "tenure-months"}.Title())
	assert.Equal(t, "PAN Number", Field{Form: "pan-number", Label: "PAN Number"}.Title())
}

func TestFieldMap_TitlesConcurrent(t *testing.T) {
	want := []string{
		"Product Name", "Product Code", "Min Amount", "Max Amount", "Interest Rate",
		"Processing Fee", "Tenure Months", "Interest Type", "Active",
	}

	var wg sync.WaitGroup
	got := make([][]string, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got[i] = LoanProductFields.Titles()
			}
		}(i)
	}
	wg.Wait()
	for _, titles := range got {
		assert.Equal(t, want, titles)
	}
}

func TestFieldMap_Payload(t *testing.T) {
	t.Run("maps hyphenated names to properties", func(t *testing.T) {
		form := url.Values{
			"area-name": {"  Andheri "},
			"area-code": {"AND"},
			"pincode":   {"400053"},
			"is-active": {"on"},
		}
		payload, err := AreaFields.Payload(form)
		require.NoError(t, err)
		assert.Equal(t, Record{
			"areaName": "Andheri",
			"areaCode": "AND",
			"pincode":  "400053",
			"isActive": true,
		}, payload)
	})

	t.Run("unchecked checkbox is false", func(t *testing.T) {
		payload, err := CasteFields.Payload(url.Values{"caste-name": {"OBC"}})
		require.NoError(t, err)
		assert.Equal(t, false, payload["isActive"])
	})

	t.Run("converts numeric kinds", func(t *testing.T) {
		form := url.Values{
			"product-name":   {"Gold Loan"},
			"min-amount":     {"10000.50"},
			"interest-rate":  {"12.75"},
			"tenure-months":  {"24"},
			"processing-fee": {""},
		}
		payload, err := LoanProductFields.Payload(form)
		require.NoError(t, err)
		assert.Equal(t, json.Number("10000.5"), payload["minAmount"])
		assert.Equal(t, json.Number("12.75"), payload["interestRate"])
		assert.Equal(t, 24, payload["tenureMonths"])
		assert.NotContains(t, payload, "processingFee")

		body, err := json.Marshal(payload)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"minAmount":10000.5`)
	})

	t.Run("rejects malformed numbers", func(t *testing.T) {
		_, err := LoanProductFields.Payload(url.Values{"tenure-months": {"two years"}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		assert.Contains(t, err.Error(), "Tenure Months")

		_, err = PenaltyFields.Payload(url.Values{"amount": {"1,000"}})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("validates dates", func(t *testing.T) {
		_, err := SalesManFields.Payload(url.Values{"joining-date": {"31/12/2024"}})
		assert.Error(t, err)

		payload, err := SalesManFields.Payload(url.Values{"joining-date": {"2024-12-31"}})
		require.NoError(t, err)
		assert.Equal(t, "2024-12-31", payload["joiningDate"])
	})
}

func TestFieldMap_FormValues(t *testing.T) {
	rec := Record{"id": "s-1", "salesManName": "Kiran", "branchId": "b-7", "isActive": true}
	values := SalesManFields.FormValues(rec)

	assert.Equal(t, "Kiran", values.Get("salesman-name"))
	assert.Equal(t, "b-7", values.Get("branch-id"))
	assert.Equal(t, "on", values.Get("is-active"))
	assert.False(t, values.Has("mobile"))

	payload, err := SalesManFields.Payload(values)
	require.NoError(t, err)
	assert.Equal(t, "Kiran", payload["salesManName"])
	assert.Equal(t, true, payload["isActive"])
}

func TestFieldMap_Required(t *testing.T) {
	req := GuarantorFields.Required()
	require.Len(t, req, 2)
	assert.Equal(t, "guarantor-name", req[0].Form)
	assert.Equal(t, "mobile", req[1].Form)

	f, ok := GuarantorFields.Lookup("pan-number")
	require.True(t, ok)
	assert.Equal(t, "panNumber", f.JSON)
}
