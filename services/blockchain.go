package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearcause/charity-api/utils"
)

// explorerBaseURL is where recorded transactions can be inspected.
const explorerBaseURL = "https://holesky.etherscan.io/tx/"

// PendingTxHash is the sentinel the gateway returns before a transaction is
// mined. It maps to a placeholder explorer link, not a real one.
const PendingTxHash = "pending"

type BlockchainService struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewBlockchainService() *BlockchainService {
	baseURL := strings.TrimSpace(os.Getenv("BLOCKCHAIN_GATEWAY_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:3001"
	}
	// SECURITY: Trim spaces to prevent 401 errors from accidental copy-pasting
	return &BlockchainService{
		APIKey:  strings.TrimSpace(os.Getenv("BLOCKCHAIN_API_KEY")),
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *BlockchainService) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", s.APIKey)
}

// ChainDonation is the gateway's wire format for a donation record.
type ChainDonation struct {
	DonorID      string          `json:"donorId"`
	RecipientID  string          `json:"recipientId"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	DonationType string          `json:"donationType"`
	Metadata     string          `json:"metadata,omitempty"`
}

// ChainReceipt is what the gateway returns once a donation is accepted.
type ChainReceipt struct {
	DonationID string `json:"donationId"`
	TxHash     string `json:"txHash"`
}

// RecordDonation submits a donation record to the gateway. Metadata is
// ASCII-folded first; the gateway rejects non-ASCII payloads.
func (s *BlockchainService) RecordDonation(ctx context.Context, d ChainDonation) (*ChainReceipt, error) {
	d.Metadata = utils.SanitizeMetadata(d.Metadata)
	d.DonationType = utils.SanitizeMetadata(d.DonationType)

	body, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.BaseURL+"/donations", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	s.setHeaders(req)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &RemoteError{Op: "blockchain record", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return nil, &RemoteError{Op: "blockchain record", Status: resp.StatusCode, Message: string(b)}
	}

	var receipt ChainReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, &RemoteError{Op: "blockchain record", Message: "decode error: " + err.Error()}
	}
	return &receipt, nil
}

// GetDonation fetches a single recorded donation by gateway id.
func (s *BlockchainService) GetDonation(ctx context.Context, id string) (json.RawMessage, error) {
	return s.get(ctx, fmt.Sprintf("%s/donations/%s", s.BaseURL, id))
}

// GetRecentDonations fetches the latest N recorded donations.
func (s *BlockchainService) GetRecentDonations(ctx context.Context, count int) (json.RawMessage, error) {
	return s.get(ctx, fmt.Sprintf("%s/donations?count=%d", s.BaseURL, count))
}

func (s *BlockchainService) get(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	s.setHeaders(req)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &RemoteError{Op: "blockchain lookup", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, &RemoteError{Op: "blockchain lookup", Status: resp.StatusCode, Message: string(b)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{Op: "blockchain lookup", Message: err.Error()}
	}
	return json.RawMessage(raw), nil
}

// ExplorerURL builds the public explorer link for a transaction hash. The
// "pending" sentinel gets a placeholder instead of a broken link.
func ExplorerURL(txHash string) string {
	if txHash == "" || txHash == PendingTxHash {
		return explorerBaseURL + "0x0"
	}
	return explorerBaseURL + txHash
}
