package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"leadscore/pkg/models"
	"leadscore/pkg/sheet"

	"github.com/go-sql-driver/mysql"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Options tunes the connection pool and the driver.
type Options struct {
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	Timeout         time.Duration // dial timeout, unless the DSN sets one
}

// Open connects to the CRM database. dsn is a mariadb:// or mysql:// URL or
// a native driver DSN; the returned string is the DSN actually used.
func Open(dsn string, opts Options) (*sql.DB, string, error) {
	cfg, err := driverConfig(dsn, opts)
	if err != nil {
		return nil, "", err
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxOpenConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return db, cfg.FormatDSN(), nil
}

// driverConfig builds the driver settings. Whatever the input form, DATE
// and DATETIME columns scan as UTC time.Time and arguments are interpolated
// client side.
func driverConfig(dsn string, opts Options) (*mysql.Config, error) {
	var cfg *mysql.Config
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
		cfg = mysql.NewConfig()
		if u.User != nil {
			cfg.User = u.User.Username()
			cfg.Passwd, _ = u.User.Password()
		}
		cfg.Net = "tcp"
		cfg.Addr = u.Host
		cfg.DBName = strings.TrimPrefix(u.Path, "/")
		if cfg.User == "" || cfg.Addr == "" || cfg.DBName == "" {
			return nil, fmt.Errorf("incomplete dsn (user/host/db)")
		}
	} else {
		parsed, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
		cfg = parsed
	}

	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.InterpolateParams = true
	if cfg.Timeout == 0 {
		cfg.Timeout = opts.Timeout
	}
	return cfg, nil
}

// RedactDSN hides the password of a native MySQL DSN for logging.
func RedactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	colon := strings.Index(dsn, ":")
	if at < 0 || colon < 0 || colon > at {
		return dsn
	}
	return dsn[:colon+1] + "***" + dsn[at:]
}

// LoadTable reads every row of a CRM table into a sheet.Table, column
// order as stored. NULL becomes an empty cell and DATETIME a plain date.
func LoadTable(ctx context.Context, db *sql.DB, tableName string) (*sheet.Table, error) {
	if !tableNameRe.MatchString(tableName) {
		return nil, fmt.Errorf("invalid table name %q", tableName)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM `%s`", tableName))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", tableName, err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records [][]string
	values := make([]any, len(headers))
	ptrs := make([]any, len(headers))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make([]string, len(headers))
		for i, v := range values {
			rec[i] = cellText(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sheet.New(headers, records), nil
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.UTC().Format(models.DateLayout)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
