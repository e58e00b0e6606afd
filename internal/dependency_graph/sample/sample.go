// Package sample holds the demo topology served when no source file is
// configured.
package sample

import (
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/builder"
	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/domain"
)

type attrs = map[string]any

// Graph builds a small e-commerce platform: edge layer, core services,
// data stores and monitoring.
func Graph() (*domain.Graph, error) {
	b := builder.New()

	// edge
	b.AddNode("nginx-lb", "loadbalancer", attrs{"version": "1.21", "max_connections": 10000, "ssl_enabled": true}).
		AddNode("web-app", domain.NodeService, attrs{"framework": "react", "version": "18.2", "team": "frontend"}).
		AddNode("mobile-app", domain.NodeService, attrs{"platform": "react-native", "version": "0.72", "team": "mobile"})

	// core services
	b.AddNode("api-gateway", domain.NodeAPI, attrs{"version": "2.1.0", "port": 8080, "team": "platform", "sla": "99.99%"}).
		AddNode("auth-service", domain.NodeService, attrs{"framework": "fastapi", "team": "security", "critical": true, "replicas": 3}).
		AddNode("user-service", domain.NodeService, attrs{"framework": "fastapi", "team": "identity", "database": "postgres"}).
		AddNode("product-service", domain.NodeService, attrs{"framework": "spring-boot", "team": "catalog", "cache_enabled": true}).
		AddNode("order-service", domain.NodeService, attrs{"framework": "nodejs", "team": "commerce", "queue": "rabbitmq"}).
		AddNode("payment-service", domain.NodeService, attrs{"framework": "go", "team": "payments", "compliance": "PCI-DSS"}).
		AddNode("notification-service", domain.NodeService, attrs{"framework": "python", "team": "engagement"})

	// data
	b.AddNode("users-db", domain.NodeDatabase, attrs{"engine": "postgresql", "version": "14", "size": "500GB", "replicas": 2}).
		AddNode("products-db", domain.NodeDatabase, attrs{"engine": "mongodb", "version": "6.0", "sharding": true}).
		AddNode("orders-db", domain.NodeDatabase, attrs{"engine": "postgresql", "version": "14", "partitioning": "monthly"})

	// infrastructure
	b.AddNode("redis-cache", domain.NodeCache, attrs{"version": "7.0", "mode": "cluster", "memory": "32GB"}).
		AddNode("rabbitmq", domain.NodeQueue, attrs{"version": "3.11", "cluster_size": 3, "durable": true}).
		AddNode("kafka", "kafka", attrs{"version": "3.4", "brokers": 5, "topics": []string{"events", "logs"}}).
		AddNode("elasticsearch", domain.NodeStorage, attrs{"version": "8.0", "purpose": "logging", "retention_days": 30}).
		AddNode("prometheus", domain.NodeService, attrs{"version": "2.45", "retention": "15d", "scrape_interval": "15s"}).
		AddNode("grafana", domain.NodeService, attrs{"version": "10.0", "dashboards": []string{"system", "application", "business"}})

	b.AddFanin("nginx-lb", "web-app", "mobile-app").
		AddDependency("nginx-lb", "api-gateway", attrs{"load_balanced": true}).
		AddDependency("api-gateway", "auth-service", attrs{"critical_path": true}).
		AddFanout("api-gateway", "user-service", "product-service", "order-service", "payment-service")

	b.AddDependency("user-service", "users-db", attrs{"connection_pool": 20}).
		AddDependency("user-service", "redis-cache", attrs{"ttl": 300}).
		AddDependency("auth-service", "users-db", attrs{"read_only": true}).
		AddDependency("auth-service", "redis-cache", attrs{"ttl": 600}).
		AddFanout("product-service", "products-db", "redis-cache", "elasticsearch").
		AddFanout("order-service", "orders-db", "rabbitmq", "kafka").
		AddFanout("payment-service", "order-service", "kafka").
		AddFanout("notification-service", "rabbitmq", "kafka")

	// monitoring and logging
	b.AddFanin("prometheus", "api-gateway", "auth-service", "user-service", "order-service").
		AddDependency("prometheus", "grafana", nil).
		AddFanin("elasticsearch", "auth-service", "payment-service", "order-service")

	return b.Build()
}
