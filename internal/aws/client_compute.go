package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticache"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"

	"github.com/eleven-am/fwaudit/internal/domain"
)

func (c *Client) GetEC2Instance(ctx context.Context, instanceID string) (*domain.EC2InstanceData, error) {
	out, err := c.ec2Client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return nil, fmt.Errorf("describe instance %s: %w", instanceID, err)
	}
	if len(out.Reservations) == 0 || len(out.Reservations[0].Instances) == 0 {
		return nil, fmt.Errorf("instance %s not found", instanceID)
	}
	return toEC2InstanceData(&out.Reservations[0].Instances[0]), nil
}

func (c *Client) GetRDSInstance(ctx context.Context, dbInstanceID string) (*domain.RDSInstanceData, error) {
	out, err := c.rdsClient.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: aws.String(dbInstanceID),
	})
	if err != nil {
		return nil, fmt.Errorf("describe rds instance %s: %w", dbInstanceID, err)
	}
	if len(out.DBInstances) == 0 {
		return nil, fmt.Errorf("rds instance %s not found", dbInstanceID)
	}
	return toRDSInstanceData(&out.DBInstances[0]), nil
}

func (c *Client) GetLambdaFunction(ctx context.Context, functionName string) (*domain.LambdaFunctionData, error) {
	out, err := c.lambdaClient.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(functionName),
	})
	if err != nil {
		return nil, fmt.Errorf("get lambda function %s: %w", functionName, err)
	}
	if out.Configuration == nil {
		return nil, fmt.Errorf("lambda function %s has no configuration", functionName)
	}
	return toLambdaFunctionData(out), nil
}

func (c *Client) GetElastiCacheCluster(ctx context.Context, clusterID string) (*domain.ElastiCacheClusterData, error) {
	return cached(c.cache, c.cacheKey("elasticache", clusterID), func() (*domain.ElastiCacheClusterData, error) {
		out, err := c.elasticacheClient.DescribeCacheClusters(ctx, &elasticache.DescribeCacheClustersInput{
			CacheClusterId:    aws.String(clusterID),
			ShowCacheNodeInfo: aws.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("describe elasticache cluster %s: %w", clusterID, err)
		}
		if len(out.CacheClusters) == 0 {
			return nil, fmt.Errorf("elasticache cluster %s not found", clusterID)
		}
		return toElastiCacheClusterData(&out.CacheClusters[0]), nil
	})
}
