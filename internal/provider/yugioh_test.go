package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cardvault/internal/client/rest"
	"cardvault/internal/models"
)

func yugiohForTest(t *testing.T, handler http.Handler) (*YuGiOhProvider, *memStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := newMemStore()
	p := &YuGiOhProvider{
		Client:  rest.New(srv.Client()),
		Store:   store,
		BaseURL: srv.URL,
	}
	return p, store
}

func TestYuGiOhPopulateSets(t *testing.T) {
	p, store := yugiohForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cardsets.php" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `[
			{"set_name":"Legend of Blue Eyes White Dragon","set_code":"LOB","num_of_cards":126,"tcg_date":"2002-03-08"},
			{"set_name":"Unreleased Placeholder","set_code":"","num_of_cards":0,"tcg_date":""},
			{"set_name":"Quarter Century Bonanza","set_code":"RA03","num_of_cards":101,"tcg_date":"2024-11-21"}
		]`)
	}))

	result := p.PopulateSets(context.Background(), SetFilter{})
	if !result.Success || result.Count != 2 {
		t.Fatalf("result = %+v, want 2 sets (blank set_code dropped)", result)
	}
	set, _ := store.GetSet(context.Background(), models.GameYuGiOh, "LOB")
	if set == nil || set.Name != "Legend of Blue Eyes White Dragon" || set.TotalCards != 126 {
		t.Fatalf("LOB mapped wrong: %+v", set)
	}
}

func TestYuGiOhPopulateCardsRequiresName(t *testing.T) {
	p, _ := yugiohForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("upstream must not be called without a set name")
	}))

	result := p.PopulateCards(context.Background(), SetRef{SetID: "LOB"})
	if result.Success || len(result.Errors) != 1 {
		t.Fatalf("result = %+v, want single resolution error", result)
	}
	msg := result.Errors[0]
	if !strings.Contains(msg, `"LOB"`) {
		t.Fatalf("error %q must name the set code", msg)
	}
	if !strings.Contains(msg, "populate sets first") {
		t.Fatalf("error %q must point at the fix", msg)
	}
}

func TestYuGiOhPopulateCards(t *testing.T) {
	p, store := yugiohForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("cardset"); got != "Legend of Blue Eyes White Dragon" {
			t.Fatalf("cardset = %q", got)
		}
		fmt.Fprint(w, `{"data":[
			{"id":89631139,"name":"Blue-Eyes White Dragon","type":"Normal Monster","race":"Dragon","attribute":"LIGHT",
			 "card_sets":[
				{"set_name":"Some Reprint Tin","set_code":"TN23-EN001","set_rarity":"Secret Rare"},
				{"set_name":"LEGEND OF BLUE EYES WHITE DRAGON","set_code":"LOB-EN001","set_rarity":"Ultra Rare"}
			 ],
			 "card_images":[{"image_url":"https://img/big.jpg","image_url_small":"https://img/small.jpg"}]}
		]}`)
	}))

	ref := SetRef{SetID: "LOB", Name: "Legend of Blue Eyes White Dragon"}
	result := p.PopulateCards(context.Background(), ref)
	if !result.Success || result.Count != 1 {
		t.Fatalf("result = %+v", result)
	}

	card, _ := store.GetCardByID(context.Background(), "89631139-LOB")
	if card == nil {
		t.Fatalf("card not cached under composite id")
	}
	// The entry match is case-insensitive and yields in-set number and rarity.
	if card.Number != "LOB-EN001" {
		t.Fatalf("Number = %q, want print code from the matching set entry", card.Number)
	}
	if card.Rarity == nil || *card.Rarity != "Ultra Rare" {
		t.Fatalf("Rarity = %v, want Ultra Rare", card.Rarity)
	}
	if card.ImageSmall == nil || *card.ImageSmall != "https://img/small.jpg" {
		t.Fatalf("ImageSmall = %v", card.ImageSmall)
	}
}
