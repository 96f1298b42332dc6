package ingest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joelkehle/markcheck/internal/model"
	"github.com/joelkehle/markcheck/internal/normalize"
)

// goodsServicesCap bounds the joined goods/services text per record, counted
// in characters so the cut never lands inside a multibyte rune.
const goodsServicesCap = 4000

// journalTradeMark mirrors the subtree extracted from each TradeMark element
// of an XML journal. DecodeElement consumes and discards the subtree, so the
// parse stays O(one element) regardless of journal size.
type journalTradeMark struct {
	RegistrationNumber     string `xml:"RegistrationNumber"`
	ApplicationDate        string `xml:"ApplicationDate"`
	RegistrationOfficeCode string `xml:"RegistrationOfficeCode"`
	MarkFeature            string `xml:"MarkFeature"`
	KindMark               string `xml:"KindMark"`
	WordMark               struct {
		Text string `xml:"MarkVerbalElementText"`
	} `xml:"WordMarkSpecification"`
	Applicant struct {
		Name string `xml:"ApplicantName"`
	} `xml:"ApplicantDetails"`
	GoodsServices []struct {
		ClassNumber string `xml:"ClassNumber"`
		Description string `xml:"GoodsServicesDescription"`
	} `xml:"GoodsServicesDetails"`
}

// ParseJournal stream-parses an XML trademark journal, invoking yield once
// per TradeMark element with the canonical Mark built from it. Journal
// records carry no lifecycle dates beyond the application date, so they are
// ingested as published marks.
func ParseJournal(path string, yield func(model.Mark) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open journal %s: %w", path, err)
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parse journal %s: %w", path, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "TradeMark" {
			continue
		}
		var tm journalTradeMark
		if err := dec.DecodeElement(&tm, &start); err != nil {
			return fmt.Errorf("parse journal %s: %w", path, err)
		}
		if err := yield(journalMark(tm, path)); err != nil {
			return err
		}
	}
}

func journalMark(tm journalTradeMark, sourceFile string) model.Mark {
	regNo := strings.TrimSpace(tm.RegistrationNumber)
	markText := strings.TrimSpace(tm.WordMark.Text)
	applicant := strings.TrimSpace(tm.Applicant.Name)

	var classes []string
	var goods []string
	for _, g := range tm.GoodsServices {
		if cn := strings.TrimSpace(g.ClassNumber); cn != "" {
			classes = append(classes, cn)
		}
		if d := strings.TrimSpace(g.Description); d != "" {
			goods = append(goods, d)
		}
	}
	goodsServices := strings.Join(goods, " | ")
	if r := []rune(goodsServices); len(r) > goodsServicesCap {
		goodsServices = string(r[:goodsServicesCap])
	}

	markType := strings.TrimSpace(tm.MarkFeature)
	if markType == "" {
		markType = strings.TrimSpace(tm.KindMark)
	}
	appDate := normalize.ParseDate(tm.ApplicationDate)

	return model.Mark{
		RegNo:         regNo,
		MarkText:      markText,
		MarkTextNorm:  normalize.Text(markText),
		OwnerName:     applicant,
		OwnerType:     normalize.InferOwnerType(applicant),
		Country:       normalize.CountryFromOffice(regNo, tm.RegistrationOfficeCode),
		Status:        "Published",
		MarkType:      markType,
		Filed:         appDate,
		Published:     appDate,
		ClassCodes:    strings.Join(classes, ","),
		GoodsServices: goodsServices,
		SourceFile:    sourceFile,
	}
}
