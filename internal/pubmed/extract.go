// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// extractPapers parses an efetch XML response into paper records.
// queriedJournal is the configured journal name, used when the record
// carries no ISO abbreviation. Articles without a PMID or title are
// dropped rather than reported as errors.
func extractPapers(r io.Reader, queriedJournal string) ([]types.Paper, error) {
	var set articleSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing efetch response for %s: %w", queriedJournal, err)
	}

	var papers []types.Paper
	for _, a := range set.Articles {
		p, ok := a.toPaper(queriedJournal)
		if !ok {
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// efetch XML structures.
type articleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	PMID      string      `xml:"MedlineCitation>PMID"`
	Title     flatText    `xml:"MedlineCitation>Article>ArticleTitle"`
	Abstract  []flatText  `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	Journal   string      `xml:"MedlineCitation>Article>Journal>ISOAbbreviation"`
	PubDate   pubDate     `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate"`
	Authors   []author    `xml:"MedlineCitation>Article>AuthorList>Author"`
	IDs       []articleID `xml:"PubmedData>ArticleIdList>ArticleId"`
}

type author struct {
	LastName string `xml:"LastName"`
	ForeName string `xml:"ForeName"`
}

type articleID struct {
	Type  string `xml:"IdType,attr"`
	Value string `xml:",chardata"`
}

type pubDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

// toPaper converts a parsed article to a record. ok is false for
// malformed articles (no PMID or no title).
func (a pubmedArticle) toPaper(queriedJournal string) (types.Paper, bool) {
	pmid := strings.TrimSpace(a.PMID)
	title := string(a.Title)
	if pmid == "" || title == "" {
		return types.Paper{}, false
	}

	journal := strings.TrimSpace(a.Journal)
	if journal == "" {
		journal = queriedJournal
	}

	var parts []string
	for _, t := range a.Abstract {
		if s := string(t); s != "" {
			parts = append(parts, s)
		}
	}

	var authors []string
	for _, au := range a.Authors {
		last := strings.TrimSpace(au.LastName)
		if last == "" {
			continue
		}
		authors = append(authors, last+", "+strings.TrimSpace(au.ForeName))
	}

	var doi string
	for _, id := range a.IDs {
		if id.Type == "doi" {
			doi = strings.TrimSpace(id.Value)
			break
		}
	}

	return types.Paper{
		PMID:     pmid,
		Journal:  journal,
		Title:    title,
		Abstract: strings.Join(parts, " "),
		Date:     a.PubDate.time(),
		Authors:  authors,
		DOI:      doi,
		URL:      "https://pubmed.ncbi.nlm.nih.gov/" + pmid + "/",
	}, true
}

// monthNums maps PubMed month abbreviations to month numbers.
var monthNums = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// time converts a PubDate to a calendar date. Missing month or day
// default to 01; a MedlineDate like "2024 Jan-Feb" contributes its year
// only. An unparseable date yields the zero time.
func (d pubDate) time() time.Time {
	yearStr := d.Year
	if yearStr == "" && d.MedlineDate != "" {
		if fields := strings.Fields(d.MedlineDate); len(fields) > 0 {
			yearStr = fields[0]
		}
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}
	}

	month := time.January
	if m, ok := monthNums[d.Month]; ok {
		month = m
	} else if n, err := strconv.Atoi(d.Month); err == nil && n >= 1 && n <= 12 {
		month = time.Month(n)
	}

	day := 1
	if n, err := strconv.Atoi(d.Day); err == nil && n >= 1 && n <= 31 {
		day = n
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// flatText collects the character data of an element and all nested
// elements, so titles split by formatting tags like <i> or <sup> come
// back as one string.
type flatText string

// UnmarshalXML implements xml.Unmarshaler.
func (f *flatText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				*f = flatText(strings.TrimSpace(b.String()))
				return nil
			}
			depth--
		}
	}
}
