package dataset

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"table-pump/internal/errs"
	"table-pump/internal/remote"
)

// Quoting selects when fields are quoted.
type Quoting int

const (
	// QuoteMinimal quotes fields holding the delimiter, the quote or a line
	// break.
	QuoteMinimal Quoting = iota
	// QuoteAll quotes every field.
	QuoteAll
	// QuoteNonNumeric quotes every non-numeric field. On read, unquoted
	// fields are parsed as float64.
	QuoteNonNumeric
	// QuoteNone never quotes. Reads take the quote character as ordinary
	// text; writes refuse fields holding it, the delimiter or a line break.
	QuoteNone
)

// Opener opens a named file, e.g. on a remote host.
type Opener interface {
	Open(name string) (io.ReadCloser, error)
}

// CSVOptions is the CSV dialect plus the source or target details.
type CSVOptions struct {
	Delimiter rune // default ','
	Quote     rune // default '"'
	Quoting   Quoting
	// HeaderRow is the 1-based row holding the column names, default 1.
	// Rows above it are skipped.
	HeaderRow int
	// NoHeader reads every row as data and writes no header line.
	NoHeader bool
	// Encoding is a WHATWG encoding label such as "windows-1252"; default
	// UTF-8.
	Encoding string
	// Compression of the written file. Reads detect it from the content.
	Compression Compression
	// Opener reads the file instead of the local filesystem.
	Opener Opener
	// Remote is an sftp:// URL whose session reads the file when Opener is
	// nil.
	Remote string
	Logger *slog.Logger
}

func (o CSVOptions) withDefaults() CSVOptions {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.Quote == 0 {
		o.Quote = '"'
	}
	if o.HeaderRow <= 0 {
		o.HeaderRow = 1
	}
	if o.NoHeader {
		o.HeaderRow = 0
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

func (o CSVOptions) encoding() (encoding.Encoding, error) {
	switch strings.ToLower(o.Encoding) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	}
	enc, err := htmlindex.Get(o.Encoding)
	if err != nil {
		return nil, errs.Configf("unknown encoding %q", o.Encoding)
	}
	return enc, nil
}

// FromCSV reads a CSV file from the local filesystem, the Opener, or the
// Remote session. Compressed files are unwrapped transparently.
func FromCSV(name string, opts CSVOptions) (*Dataset, error) {
	opts = opts.withDefaults()
	opener := opts.Opener
	if opener == nil && opts.Remote != "" {
		s, err := remote.Dial(opts.Remote, opts.Logger)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		opener = s
	}

	var f io.ReadCloser
	var err error
	if opener != nil {
		f, err = opener.Open(name)
	} else {
		f, err = os.Open(name)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, opts)
}

// ReadCSV parses CSV from r.
func ReadCSV(r io.Reader, opts CSVOptions) (*Dataset, error) {
	opts = opts.withDefaults()
	enc, err := opts.encoding()
	if err != nil {
		return nil, err
	}
	plain, done, err := decompress(r)
	if err != nil {
		return nil, err
	}
	defer done()

	records, err := parseCSV(bufio.NewReader(transform.NewReader(plain, enc.NewDecoder())), opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("csv parsed", slog.Int("records", len(records)))

	d := New()
	h := opts.HeaderRow
	if h == 0 {
		d.rows = records
		return d, nil
	}
	if len(records) < h {
		return d, nil
	}
	d.columns = make([]string, len(records[h-1]))
	for i, v := range records[h-1] {
		d.columns[i] = cast.ToString(v)
	}
	d.rows = records[h:]
	return d, nil
}

func parseCSV(r *bufio.Reader, o CSVOptions) ([][]any, error) {
	var (
		records [][]any
		row     []any
		field   strings.Builder
		quoted  bool // current field was quoted
		inQuote bool
		started bool // current row has content
		line    = 1
	)
	endField := func() error {
		s := field.String()
		field.Reset()
		var v any = s
		if o.Quoting == QuoteNonNumeric && !quoted && s != "" {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return errs.Shapef("line %d: could not convert %q to float", line, s)
			}
			v = f
		}
		row = append(row, v)
		quoted = false
		return nil
	}
	endRow := func() error {
		if !started {
			return nil
		}
		if err := endField(); err != nil {
			return err
		}
		records = append(records, row)
		row, started = nil, false
		return nil
	}

	for {
		c, _, err := r.ReadRune()
		if errors.Is(err, io.EOF) {
			if inQuote {
				return nil, errs.Shapef("line %d: unexpected end of data inside quotes", line)
			}
			return records, endRow()
		}
		if err != nil {
			return nil, err
		}
		switch {
		case inQuote:
			if c == o.Quote {
				next, _, err := r.ReadRune()
				if err == nil && next == o.Quote {
					field.WriteRune(o.Quote)
					continue
				}
				if err == nil {
					_ = r.UnreadRune()
				}
				inQuote = false
				continue
			}
			if c == '\n' {
				line++
			}
			field.WriteRune(c)
		case c == o.Quote && o.Quoting != QuoteNone && field.Len() == 0 && !quoted:
			inQuote, quoted, started = true, true, true
		case c == o.Delimiter:
			started = true
			if err := endField(); err != nil {
				return nil, err
			}
		case c == '\r':
			// dropped; a following \n ends the row
		case c == '\n':
			if err := endRow(); err != nil {
				return nil, err
			}
			line++
		default:
			started = true
			field.WriteRune(c)
		}
	}
}

// WriteCSV writes the header, unless NoHeader, and every row to w using
// "\n" line endings.
func (d *Dataset) WriteCSV(w io.Writer, opts CSVOptions) error {
	opts = opts.withDefaults()
	enc, err := opts.encoding()
	if err != nil {
		return err
	}
	if opts.Encoding == "" || strings.EqualFold(opts.Encoding, "utf-8") || strings.EqualFold(opts.Encoding, "utf8") {
		enc = encoding.Nop
	}
	tw := transform.NewWriter(w, enc.NewEncoder())
	bw := bufio.NewWriter(tw)

	if !opts.NoHeader {
		header := make([]any, len(d.Columns()))
		for i, c := range d.Columns() {
			header[i] = c
		}
		if err := writeRecord(bw, header, opts); err != nil {
			return err
		}
	}
	for _, row := range d.rows {
		if err := writeRecord(bw, row, opts); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return tw.Close()
}

// ToCSV writes the dataset to a file, compressed per opts.Compression or, when
// unset, per the file extension.
func (d *Dataset) ToCSV(name string, opts CSVOptions) (err error) {
	c := opts.Compression
	if c == Uncompressed {
		c = CompressionOf(name)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	cw, err := compressor(f, c)
	if err != nil {
		return err
	}
	if err := d.WriteCSV(cw, opts); err != nil {
		return err
	}
	return cw.Close()
}

func writeRecord(w *bufio.Writer, row []any, o CSVOptions) error {
	for i, v := range row {
		if i > 0 {
			w.WriteRune(o.Delimiter)
		}
		s := csvText(v)
		quote := false
		switch o.Quoting {
		case QuoteAll:
			quote = true
		case QuoteNonNumeric:
			quote = !isNumeric(v)
		case QuoteMinimal:
			quote = strings.ContainsRune(s, o.Delimiter) || strings.ContainsRune(s, o.Quote) ||
				strings.ContainsAny(s, "\r\n") || (s == "" && len(row) == 1)
		case QuoteNone:
			if strings.ContainsRune(s, o.Delimiter) || strings.ContainsRune(s, o.Quote) || strings.ContainsAny(s, "\r\n") {
				return errs.Configf("field %q needs quoting but quoting is disabled", s)
			}
		}
		if !quote {
			w.WriteString(s)
			continue
		}
		q := string(o.Quote)
		w.WriteString(q)
		w.WriteString(strings.ReplaceAll(s, q, q+q))
		w.WriteString(q)
	}
	_, err := w.WriteString("\n")
	return err
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, decimal.Decimal:
		return true
	}
	return false
}

// csvText is the text of one field. nil is empty.
func csvText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		if x.Nanosecond() != 0 {
			return x.Format("2006-01-02 15:04:05.000000")
		}
		return x.Format(time.DateTime)
	case []byte:
		return string(x)
	}
	return cast.ToString(v)
}
