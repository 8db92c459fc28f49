package pihole

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// defaultCNAMETTL matches the TTL Pi-hole assigns when none is given.
const defaultCNAMETTL = 300

// ARecord is one local A record from the dns.hosts configuration.
type ARecord struct {
	Hostname string `json:"hostname"`
	IP       string `json:"ip"`
}

// CNAMERecord is one local CNAME record from the dns.cnameRecords
// configuration.
type CNAMERecord struct {
	Alias  string `json:"alias"`
	Target string `json:"target"`
	TTL    int    `json:"ttl"`
}

// LocalDNSStats summarizes the local DNS records.
type LocalDNSStats struct {
	ARecords     int
	CNAMERecords int
	UniqueIPs    int
	DomainsPerIP map[string][]string
}

// localDNSConfig holds the two raw record arrays from the config tree.
type localDNSConfig struct {
	hosts  []string
	cnames []string
}

func (c *Client) localDNS(ctx context.Context) (*localDNSConfig, error) {
	cfg, err := c.ConfigSection(ctx, "dns", false)
	if err != nil {
		return nil, err
	}

	dns, _ := cfg.Config["dns"].(map[string]any)
	out := &localDNSConfig{}
	if hosts, ok := dns["hosts"].([]any); ok {
		for _, h := range hosts {
			if s, ok := h.(string); ok {
				out.hosts = append(out.hosts, s)
			}
		}
	}
	if cnames, ok := dns["cnameRecords"].([]any); ok {
		for _, r := range cnames {
			if s, ok := r.(string); ok {
				out.cnames = append(out.cnames, s)
			}
		}
	}
	return out, nil
}

// parseHostsEntry splits an "ip host [host...]" line into A records.
func parseHostsEntry(entry string) []ARecord {
	parts := strings.Fields(entry)
	if len(parts) < 2 {
		return nil
	}
	records := make([]ARecord, 0, len(parts)-1)
	for _, hostname := range parts[1:] {
		records = append(records, ARecord{Hostname: hostname, IP: parts[0]})
	}
	return records
}

// parseCNAMEEntry splits an "alias,target[,ttl]" line into a CNAME record.
func parseCNAMEEntry(entry string) (CNAMERecord, bool) {
	parts := strings.Split(entry, ",")
	if len(parts) < 2 {
		return CNAMERecord{}, false
	}
	record := CNAMERecord{
		Alias:  strings.TrimSpace(parts[0]),
		Target: strings.TrimSpace(parts[1]),
		TTL:    defaultCNAMETTL,
	}
	if len(parts) > 2 {
		if ttl, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
			record.TTL = ttl
		}
	}
	return record, true
}

// LocalARecords retrieves all local A records.
func (c *Client) LocalARecords(ctx context.Context) ([]ARecord, error) {
	cfg, err := c.localDNS(ctx)
	if err != nil {
		return nil, err
	}

	var records []ARecord
	for _, entry := range cfg.hosts {
		records = append(records, parseHostsEntry(entry)...)
	}
	return records, nil
}

// LocalCNAMERecords retrieves all local CNAME records.
func (c *Client) LocalCNAMERecords(ctx context.Context) ([]CNAMERecord, error) {
	cfg, err := c.localDNS(ctx)
	if err != nil {
		return nil, err
	}

	var records []CNAMERecord
	for _, entry := range cfg.cnames {
		if record, ok := parseCNAMEEntry(entry); ok {
			records = append(records, record)
		}
	}
	return records, nil
}

// AddLocalARecord adds a local A record. The IP is validated before the
// request goes out.
func (c *Client) AddLocalARecord(ctx context.Context, hostname, ip string) error {
	if strings.TrimSpace(hostname) == "" {
		return fmt.Errorf("hostname is required")
	}
	if net.ParseIP(ip) == nil {
		return fmt.Errorf("invalid IP address: %s", ip)
	}

	_, err := c.do(ctx, &requestSpec{
		method: http.MethodPut,
		path:   "config/dns/hosts/" + url.PathEscape(ip+" "+hostname),
	})
	return err
}

// RemoveLocalARecord removes a local A record. With an empty ip the current
// address for the hostname is looked up first.
func (c *Client) RemoveLocalARecord(ctx context.Context, hostname, ip string) error {
	if ip == "" {
		records, err := c.LocalARecords(ctx)
		if err != nil {
			return err
		}
		for _, record := range records {
			if strings.EqualFold(record.Hostname, hostname) {
				ip = record.IP
				break
			}
		}
		if ip == "" {
			return fmt.Errorf("hostname %s not found in A records", hostname)
		}
	}

	_, err := c.do(ctx, &requestSpec{
		method: http.MethodDelete,
		path:   "config/dns/hosts/" + url.PathEscape(ip+" "+hostname),
	})
	return err
}

// UpdateLocalARecord points an existing hostname at a new IP. A missing old
// record is not an error; the new record is added either way.
func (c *Client) UpdateLocalARecord(ctx context.Context, hostname, newIP string) error {
	if err := c.RemoveLocalARecord(ctx, hostname, ""); err != nil {
		c.logger.Debug().Err(err).Str("hostname", hostname).Msg("No existing A record to replace")
	}
	return c.AddLocalARecord(ctx, hostname, newIP)
}

// AddLocalCNAME adds a local CNAME record. A ttl of zero or less uses the
// Pi-hole default of 300 seconds.
func (c *Client) AddLocalCNAME(ctx context.Context, alias, target string, ttl int) error {
	if alias == "" || target == "" {
		return fmt.Errorf("alias and target are required")
	}
	if ttl <= 0 {
		ttl = defaultCNAMETTL
	}

	_, err := c.do(ctx, &requestSpec{
		method: http.MethodPut,
		path:   "config/dns/cnameRecords/" + url.PathEscape(fmt.Sprintf("%s,%s,%d", alias, target, ttl)),
	})
	return err
}

// RemoveLocalCNAME removes a local CNAME record. With an empty target the
// current target and TTL for the alias are looked up first.
func (c *Client) RemoveLocalCNAME(ctx context.Context, alias, target string, ttl int) error {
	if ttl <= 0 {
		ttl = defaultCNAMETTL
	}
	if target == "" {
		records, err := c.LocalCNAMERecords(ctx)
		if err != nil {
			return err
		}
		for _, record := range records {
			if strings.EqualFold(record.Alias, alias) {
				target = record.Target
				ttl = record.TTL
				break
			}
		}
		if target == "" {
			return fmt.Errorf("CNAME alias %s not found", alias)
		}
	}

	_, err := c.do(ctx, &requestSpec{
		method: http.MethodDelete,
		path:   "config/dns/cnameRecords/" + url.PathEscape(fmt.Sprintf("%s,%s,%d", alias, target, ttl)),
	})
	return err
}

// SearchLocalRecords returns the A and CNAME records whose name contains the
// query, case-insensitively.
func (c *Client) SearchLocalRecords(ctx context.Context, query string) ([]ARecord, []CNAMERecord, error) {
	cfg, err := c.localDNS(ctx)
	if err != nil {
		return nil, nil, err
	}

	query = strings.ToLower(query)
	var aMatches []ARecord
	for _, entry := range cfg.hosts {
		for _, record := range parseHostsEntry(entry) {
			if strings.Contains(strings.ToLower(record.Hostname), query) {
				aMatches = append(aMatches, record)
			}
		}
	}

	var cnameMatches []CNAMERecord
	for _, entry := range cfg.cnames {
		if record, ok := parseCNAMEEntry(entry); ok {
			if strings.Contains(strings.ToLower(record.Alias), query) {
				cnameMatches = append(cnameMatches, record)
			}
		}
	}

	return aMatches, cnameMatches, nil
}

// LocalRecordsByIP returns every hostname with an A record pointing at the
// given IP.
func (c *Client) LocalRecordsByIP(ctx context.Context, ip string) ([]string, error) {
	records, err := c.LocalARecords(ctx)
	if err != nil {
		return nil, err
	}

	var hostnames []string
	for _, record := range records {
		if record.IP == ip {
			hostnames = append(hostnames, record.Hostname)
		}
	}
	return hostnames, nil
}

// Formats accepted by ExportLocalRecords.
const (
	ExportFormatJSON = "json"
	ExportFormatCSV  = "csv"
)

// ExportLocalRecords writes all local A and CNAME records to w in the given
// format. The format is checked before any request goes out.
func (c *Client) ExportLocalRecords(ctx context.Context, w io.Writer, format string) error {
	format = strings.ToLower(format)
	if format != ExportFormatJSON && format != ExportFormatCSV {
		return fmt.Errorf("unsupported export format: %s", format)
	}

	cfg, err := c.localDNS(ctx)
	if err != nil {
		return err
	}

	var aRecords []ARecord
	for _, entry := range cfg.hosts {
		aRecords = append(aRecords, parseHostsEntry(entry)...)
	}
	var cnameRecords []CNAMERecord
	for _, entry := range cfg.cnames {
		if record, ok := parseCNAMEEntry(entry); ok {
			cnameRecords = append(cnameRecords, record)
		}
	}

	if format == ExportFormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			A     []ARecord     `json:"a_records"`
			CNAME []CNAMERecord `json:"cname_records"`
		}{A: aRecords, CNAME: cnameRecords})
	}

	cw := csv.NewWriter(w)
	cw.Write([]string{"Domain", "Type", "Target", "TTL"})
	for _, record := range aRecords {
		cw.Write([]string{record.Hostname, "A", record.IP, ""})
	}
	for _, record := range cnameRecords {
		cw.Write([]string{record.Alias, "CNAME", record.Target, strconv.Itoa(record.TTL)})
	}
	cw.Flush()
	return cw.Error()
}

// LocalDNSStatistics summarizes the local DNS records.
func (c *Client) LocalDNSStatistics(ctx context.Context) (*LocalDNSStats, error) {
	cfg, err := c.localDNS(ctx)
	if err != nil {
		return nil, err
	}

	stats := &LocalDNSStats{DomainsPerIP: make(map[string][]string)}
	for _, entry := range cfg.hosts {
		for _, record := range parseHostsEntry(entry) {
			stats.ARecords++
			stats.DomainsPerIP[record.IP] = append(stats.DomainsPerIP[record.IP], record.Hostname)
		}
	}
	for _, entry := range cfg.cnames {
		if _, ok := parseCNAMEEntry(entry); ok {
			stats.CNAMERecords++
		}
	}
	stats.UniqueIPs = len(stats.DomainsPerIP)
	return stats, nil
}
