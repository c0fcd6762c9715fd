package aws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	log "github.com/sirupsen/logrus"

	"github.com/eleven-am/fwaudit/internal/domain"
)

const DefaultRoleARNPattern = "arn:aws:iam::%s:role/FirewallAuditRole"

type credentialEntry struct {
	creds      domain.AWSCredentials
	expiration time.Time
}

// AccountContext hands out clients per account. The account the base
// configuration belongs to is used directly; any other account is reached by
// assuming the role built from roleARNPattern.
type AccountContext struct {
	baseConfig      aws.Config
	roleARNPattern  string
	homeAccountID   string
	stsClient       *sts.Client
	credentialCache map[string]credentialEntry
	clientPool      map[string]*Client
	mu              sync.RWMutex
}

func NewAccountContext(cfg aws.Config, roleARNPattern string) *AccountContext {
	if roleARNPattern == "" {
		roleARNPattern = DefaultRoleARNPattern
	}
	return &AccountContext{
		baseConfig:      cfg,
		roleARNPattern:  roleARNPattern,
		stsClient:       sts.NewFromConfig(cfg),
		credentialCache: make(map[string]credentialEntry),
		clientPool:      make(map[string]*Client),
	}
}

// CallerAccount resolves the account of the base credentials.
func (a *AccountContext) CallerAccount(ctx context.Context) (string, error) {
	a.mu.RLock()
	home := a.homeAccountID
	a.mu.RUnlock()
	if home != "" {
		return home, nil
	}

	out, err := a.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("get caller identity: %w", err)
	}
	home = derefString(out.Account)

	a.mu.Lock()
	a.homeAccountID = home
	a.mu.Unlock()
	return home, nil
}

func (a *AccountContext) AssumeRole(accountID string) (domain.AWSCredentials, error) {
	a.mu.RLock()
	entry, exists := a.credentialCache[accountID]
	a.mu.RUnlock()

	if exists && time.Now().Add(5*time.Minute).Before(entry.expiration) {
		return entry.creds, nil
	}

	roleARN := fmt.Sprintf(a.roleARNPattern, accountID)
	sessionName := fmt.Sprintf("fwaudit-%s", accountID)

	log.Debugf("Assuming role %s", roleARN)
	out, err := a.stsClient.AssumeRole(context.Background(), &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleARN),
		RoleSessionName: aws.String(sessionName),
		DurationSeconds: aws.Int32(3600),
	})
	if err != nil {
		return domain.AWSCredentials{}, fmt.Errorf("assume role %s: %w", roleARN, err)
	}
	if out.Credentials == nil {
		return domain.AWSCredentials{}, fmt.Errorf("assume role %s: no credentials returned", roleARN)
	}

	creds := domain.AWSCredentials{
		AccessKeyID:     derefString(out.Credentials.AccessKeyId),
		SecretAccessKey: derefString(out.Credentials.SecretAccessKey),
		SessionToken:    derefString(out.Credentials.SessionToken),
	}
	if out.Credentials.Expiration != nil {
		creds.Expiration = *out.Credentials.Expiration
	}

	a.mu.Lock()
	a.credentialCache[accountID] = credentialEntry{
		creds:      creds,
		expiration: creds.Expiration,
	}
	a.mu.Unlock()

	return creds, nil
}

// GetClient returns a client for accountID. An empty account ID or the
// caller's own account uses the base credentials without assuming a role.
func (a *AccountContext) GetClient(accountID string) (domain.AWSClient, error) {
	a.mu.RLock()
	home := a.homeAccountID
	a.mu.RUnlock()

	if accountID == "" || accountID == home {
		return a.baseClient(home), nil
	}

	a.mu.RLock()
	client, exists := a.clientPool[accountID]
	entry, hasEntry := a.credentialCache[accountID]
	a.mu.RUnlock()

	if exists && hasEntry && time.Now().Add(5*time.Minute).Before(entry.expiration) {
		return client, nil
	}

	creds, err := a.AssumeRole(accountID)
	if err != nil {
		return nil, err
	}

	cfg := a.baseConfig.Copy()
	cfg.Credentials = credentials.NewStaticCredentialsProvider(
		creds.AccessKeyID,
		creds.SecretAccessKey,
		creds.SessionToken,
	)

	client = NewClient(cfg, accountID, cfg.Region)

	a.mu.Lock()
	a.clientPool[accountID] = client
	a.mu.Unlock()

	return client, nil
}

func (a *AccountContext) baseClient(accountID string) *Client {
	a.mu.Lock()
	defer a.mu.Unlock()
	if client, ok := a.clientPool[""]; ok {
		return client
	}
	client := NewClient(a.baseConfig, accountID, a.baseConfig.Region)
	a.clientPool[""] = client
	return client
}
