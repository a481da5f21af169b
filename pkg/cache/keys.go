package cache

import (
	"fmt"

	"github.com/google/uuid"
)

const ordersNamespace = "tl:orders"

// OrderKey addresses a single order detail.
func OrderKey(orderID uuid.UUID) string {
	return fmt.Sprintf("%s:order:%s", ordersNamespace, orderID)
}

// AdminOrdersKey addresses one page of an admin's order list.
func AdminOrdersKey(adminID uuid.UUID, page, pageSize int) string {
	return fmt.Sprintf("%s:admin:%s:p%d:s%d", ordersNamespace, adminID, page, pageSize)
}

// ClientOrdersKey addresses one page of a client's order list.
func ClientOrdersKey(clientID uuid.UUID, page, pageSize int) string {
	return fmt.Sprintf("%s:client:%s:p%d:s%d", ordersNamespace, clientID, page, pageSize)
}

// AdminOrdersPattern matches every cached page for the admin.
func AdminOrdersPattern(adminID uuid.UUID) string {
	return fmt.Sprintf("%s:admin:%s:*", ordersNamespace, adminID)
}

// ClientOrdersPattern matches every cached page for the client.
func ClientOrdersPattern(clientID uuid.UUID) string {
	return fmt.Sprintf("%s:client:%s:*", ordersNamespace, clientID)
}
