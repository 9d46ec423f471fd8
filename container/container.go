/*
Package container provides dependency injection capabilities for the RSS feed tools.

This package implements a simple dependency injection container that helps manage
service dependencies and reduces tight coupling between components.
*/
package container

import (
	"fmt"
	"sync"

	"github.com/Nexora-Open-Source/rss-feed-tools/handlers"
	"github.com/Nexora-Open-Source/rss-feed-tools/utils"
	"github.com/sirupsen/logrus"
)

// Service names
const (
	LoggerService     = "logger"
	FeedParserService = "feed_parser"
	HandlerService    = "handler"
)

// Container holds all service dependencies
type Container struct {
	mu         sync.RWMutex
	services   map[string]interface{}
	factories  map[string]func() (interface{}, error)
	singletons map[string]interface{}
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		services:   make(map[string]interface{}),
		factories:  make(map[string]func() (interface{}, error)),
		singletons: make(map[string]interface{}),
	}
}

// Register registers a service instance
func (c *Container) Register(name string, service interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = service
}

// RegisterFactory registers a factory function for lazy service creation
func (c *Container) RegisterFactory(name string, factory func() (interface{}, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = factory
}

// RegisterSingleton registers a singleton service
func (c *Container) RegisterSingleton(name string, service interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.singletons[name] = service
}

// Get retrieves a service by name. Factory results are cached as singletons
// so every caller shares one instance.
func (c *Container) Get(name string) (interface{}, error) {
	c.mu.RLock()
	if service, exists := c.services[name]; exists {
		c.mu.RUnlock()
		return service, nil
	}
	if singleton, exists := c.singletons[name]; exists {
		c.mu.RUnlock()
		return singleton, nil
	}
	factory, exists := c.factories[name]
	c.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("service %s not found", name)
	}

	service, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create service %s: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.singletons[name]; ok {
		return existing, nil
	}
	c.singletons[name] = service
	return service, nil
}

// GetLogger retrieves the logger service
func (c *Container) GetLogger() (*logrus.Logger, error) {
	service, err := c.Get(LoggerService)
	if err != nil {
		return nil, err
	}
	logger, ok := service.(*logrus.Logger)
	if !ok {
		return nil, fmt.Errorf("logger service is not of expected type")
	}
	return logger, nil
}

// GetFeedParser retrieves the feed parser service
func (c *Container) GetFeedParser() (utils.FeedParser, error) {
	service, err := c.Get(FeedParserService)
	if err != nil {
		return nil, err
	}
	parser, ok := service.(utils.FeedParser)
	if !ok {
		return nil, fmt.Errorf("feed parser service is not of expected type")
	}
	return parser, nil
}

// GetHandler retrieves the handler service
func (c *Container) GetHandler() (*handlers.Handler, error) {
	service, err := c.Get(HandlerService)
	if err != nil {
		return nil, err
	}
	handler, ok := service.(*handlers.Handler)
	if !ok {
		return nil, fmt.Errorf("handler service is not of expected type")
	}
	return handler, nil
}

// InitializeServices initializes all core services with proper dependencies
func (c *Container) InitializeServices(feedParser utils.FeedParser, sourcesFile string, logger *logrus.Logger) error {
	if feedParser == nil {
		return fmt.Errorf("feed parser is required")
	}
	if logger == nil {
		return fmt.Errorf("logger is required")
	}

	c.RegisterSingleton(LoggerService, logger)
	c.RegisterSingleton(FeedParserService, feedParser)

	c.RegisterFactory(HandlerService, func() (interface{}, error) {
		return handlers.NewHandler(feedParser, sourcesFile, logger), nil
	})

	return nil
}

// Close releases services that hold resources. Feed parsing holds idle
// HTTP connections only, so this drops them.
func (c *Container) Close() error {
	parser, err := c.GetFeedParser()
	if err != nil {
		return nil
	}
	if closer, ok := parser.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
	return nil
}
