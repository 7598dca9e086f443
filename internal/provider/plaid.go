package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fjacquet/ledger-sync/internal/dateutils"
	"fjacquet/ledger-sync/internal/logging"
	"fjacquet/ledger-sync/internal/models"
	"fjacquet/ledger-sync/internal/reconerror"

	"github.com/plaid/plaid-go/v29/plaid"
	"github.com/shopspring/decimal"
)

// PlaidName identifies the Plaid provider.
const PlaidName = "plaid"

// PlaidFetcher fetches transactions with the Plaid transactions/get API.
type PlaidFetcher struct {
	client      *plaid.APIClient
	accessToken string
	timeout     time.Duration
	logger      logging.Logger
}

func plaidEnvironment(name string) (plaid.Environment, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sandbox":
		return plaid.Sandbox, nil
	case "production":
		return plaid.Production, nil
	default:
		return "", fmt.Errorf("unsupported plaid environment %q (expected sandbox or production)", name)
	}
}

// NewPlaidFetcher creates a PlaidFetcher from credentials in cfg.
func NewPlaidFetcher(cfg Config, logger logging.Logger) (*PlaidFetcher, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if cfg.ClientID == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("plaid client id and secret are required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("plaid access token is required")
	}
	env, err := plaidEnvironment(cfg.Environment)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)
	configuration.UseEnvironment(env)
	configuration.HTTPClient = &http.Client{Timeout: timeout}

	return &PlaidFetcher{
		client:      plaid.NewAPIClient(configuration),
		accessToken: cfg.AccessToken,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// Name returns the provider name.
func (p *PlaidFetcher) Name() string {
	return PlaidName
}

// Fetch requests one page of up to w.Count transactions.
func (p *PlaidFetcher) Fetch(ctx context.Context, w Window) (*models.FetchResult, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	request := plaid.NewTransactionsGetRequest(p.accessToken,
		dateutils.ToISODate(w.Start), dateutils.ToISODate(w.End))
	request.SetOptions(plaid.TransactionsGetRequestOptions{
		Count: plaid.PtrInt32(int32(w.Count)),
	})

	p.logger.Info("Fetching transactions from Plaid",
		logging.F(logging.FieldStartDate, dateutils.ToISODate(w.Start)),
		logging.F(logging.FieldEndDate, dateutils.ToISODate(w.End)),
		logging.F(logging.FieldCount, w.Count))

	resp, _, err := p.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
	if err != nil {
		if plaidErr, convErr := plaid.ToPlaidError(err); convErr == nil {
			err = fmt.Errorf("%s: %s", plaidErr.GetErrorCode(), plaidErr.GetErrorMessage())
		}
		return nil, &reconerror.FetchError{Provider: PlaidName, Err: err}
	}

	result, err := convertPlaidResponse(resp.GetTransactions(), resp.GetAccounts(), int(resp.GetTotalTransactions()))
	if err != nil {
		return nil, &reconerror.FetchError{Provider: PlaidName, Err: err}
	}

	warnIfTruncated(p.logger, PlaidName, w, result)
	return result, nil
}

func convertPlaidResponse(txs []plaid.Transaction, accounts []plaid.AccountBase, total int) (*models.FetchResult, error) {
	result := &models.FetchResult{
		Transactions:      make([]models.ProviderTransaction, 0, len(txs)),
		Accounts:          make([]models.ProviderAccount, 0, len(accounts)),
		TotalTransactions: total,
	}
	for _, acct := range accounts {
		result.Accounts = append(result.Accounts, convertPlaidAccount(acct))
	}
	for _, tx := range txs {
		ptx, err := convertPlaidTransaction(tx)
		if err != nil {
			return nil, err
		}
		result.Transactions = append(result.Transactions, ptx)
	}
	return result, nil
}

func convertPlaidAccount(acct plaid.AccountBase) models.ProviderAccount {
	return models.ProviderAccount{
		AccountID: acct.GetAccountId(),
		Name:      acct.GetName(),
		Mask:      acct.GetMask(),
		Type:      string(acct.GetType()),
		Subtype:   string(acct.GetSubtype()),
	}
}

func convertPlaidTransaction(tx plaid.Transaction) (models.ProviderTransaction, error) {
	date, _, err := dateutils.ParseDate(tx.GetDate())
	if err != nil {
		return models.ProviderTransaction{}, fmt.Errorf("transaction %s: %w", tx.GetTransactionId(), err)
	}

	ptx := models.ProviderTransaction{
		TransactionID:   tx.GetTransactionId(),
		AccountID:       tx.GetAccountId(),
		Date:            date,
		Name:            tx.GetName(),
		Amount:          decimal.NewFromFloat(tx.GetAmount()),
		Category:        tx.GetCategory(),
		TransactionType: tx.GetTransactionType(),
		Pending:         tx.GetPending(),
	}

	loc := tx.GetLocation()
	l := models.Location{
		Address: loc.GetAddress(),
		City:    loc.GetCity(),
		State:   loc.GetRegion(),
		Zip:     loc.GetPostalCode(),
		Country: loc.GetCountry(),
	}
	if !l.IsEmpty() {
		ptx.Location = &l
	}
	return ptx, nil
}
