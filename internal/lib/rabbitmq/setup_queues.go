package rabbitmq

// QueueConfig связывает имя очереди с routing key в exchange аудита.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetAuditQueues возвращает очереди, в которые раскладываются события аудита.
func GetAuditQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "audit.registrations", RoutingKey: KeyUserRegistered},
		{QueueName: "audit.approvals", RoutingKey: KeyUserApproved},
		{QueueName: "audit.transfers", RoutingKey: KeyAdminTransferred},
	}
}
