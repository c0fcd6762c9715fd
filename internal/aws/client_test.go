package aws

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
)

func TestNewRetryer(t *testing.T) {
	retryer, ok := newRetryer().(*retry.Standard)
	if !ok {
		t.Fatalf("expected *retry.Standard, got %T", newRetryer())
	}
	if retryer.MaxAttempts() != 5 {
		t.Errorf("expected 5 attempts, got %d", retryer.MaxAttempts())
	}
	if retryer.IsErrorRetryable(nil) {
		t.Error("nil error must not be retried")
	}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name       string
		cfgRegion  string
		region     string
		wantRegion string
	}{
		{name: "explicit region wins", cfgRegion: "eu-west-1", region: "us-east-1", wantRegion: "us-east-1"},
		{name: "region from config", cfgRegion: "eu-west-1", wantRegion: "eu-west-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(aws.Config{Region: tt.cfgRegion}, "123456789012", tt.region)

			if client.Region() != tt.wantRegion {
				t.Errorf("expected region %s, got %s", tt.wantRegion, client.Region())
			}
			if client.AccountID() != "123456789012" {
				t.Errorf("expected account 123456789012, got %s", client.AccountID())
			}
			if client.ec2Client == nil || client.networkFirewallClient == nil || client.rdsClient == nil ||
				client.lambdaClient == nil || client.elasticacheClient == nil || client.elbClient == nil ||
				client.elbv2Client == nil || client.apigwClient == nil || client.apigwv2Client == nil {
				t.Error("expected every service client to be built")
			}
			if client.cache == nil {
				t.Error("expected a describe cache")
			}
		})
	}
}

func TestCacheKey(t *testing.T) {
	client := NewClient(aws.Config{}, "123456789012", "us-east-1")

	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"sg", "sg-12345"}, "sg:sg-12345"},
		{[]string{"pl", "pl-0abc"}, "pl:pl-0abc"},
		{[]string{"vpclink-v1", "abc123", "targets"}, "vpclink-v1:abc123:targets"},
	}
	for _, tt := range tests {
		if got := client.cacheKey(tt.parts...); got != tt.want {
			t.Errorf("cacheKey(%v) = %s, want %s", tt.parts, got, tt.want)
		}
	}
}

func TestUniqueStrings(t *testing.T) {
	got := uniqueStrings([]string{"sg-1", "", "sg-2", "sg-1", "sg-3", "sg-2"})
	want := []string{"sg-1", "sg-2", "sg-3"}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %s at %d, got %s", want[i], i, got[i])
		}
	}
}

func TestNewAccountContext_DefaultPattern(t *testing.T) {
	ac := NewAccountContext(aws.Config{Region: "us-east-1"}, "")

	if ac.roleARNPattern != DefaultRoleARNPattern {
		t.Errorf("expected default role pattern, got %s", ac.roleARNPattern)
	}
}

func TestAccountContext_HomeAccountUsesBaseClient(t *testing.T) {
	ac := NewAccountContext(aws.Config{Region: "us-east-1"}, "")

	first, err := ac.GetClient("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ac.GetClient("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("expected the base client to be reused")
	}
}
