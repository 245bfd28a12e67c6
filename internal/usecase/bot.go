package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	domainErrors "github.com/polkiloo/orderflow/internal/domain/errors"
	"github.com/polkiloo/orderflow/internal/domain/model"
)

const botHelp = "Commands:\n" +
	"menu <shop>: show the menu\n" +
	"order <shop> <qty> <item>, <qty> <item>: place an order\n" +
	"status <order id>: check an order"

type botOrders interface {
	Create(ctx context.Context, in model.NewOrder) (*model.Order, error)
	Get(ctx context.Context, orderID string) (*model.Order, error)
}

type botShops interface {
	Get(ctx context.Context, shopID int64) (*model.Shop, error)
	Menu(ctx context.Context, shopID int64) ([]model.MenuItem, error)
}

// BotUseCase answers customer messages from the chat channel.
type BotUseCase struct {
	orders botOrders
	shops  botShops
}

func NewBotUseCase(orders *OrderLifecycle, shops *ShopUseCase) *BotUseCase {
	return &BotUseCase{orders: orders, shops: shops}
}

// Reply handles one inbound message and returns the text to send back.
// An empty reply means the customer is answered elsewhere, e.g. by the
// order confirmation.
func (b *BotUseCase) Reply(ctx context.Context, msg model.InboundMessage) string {
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return botHelp
	}

	switch strings.ToLower(fields[0]) {
	case "menu":
		if len(fields) != 2 {
			return botHelp
		}
		return b.menu(ctx, fields[1])
	case "order":
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(msg.Text), fields[0]))
		return b.order(ctx, msg, rest)
	case "status":
		if len(fields) != 2 {
			return botHelp
		}
		return b.status(ctx, fields[1])
	default:
		return botHelp
	}
}

func (b *BotUseCase) menu(ctx context.Context, rawShopID string) string {
	shopID, err := strconv.ParseInt(rawShopID, 10, 64)
	if err != nil {
		return botHelp
	}
	shop, err := b.shops.Get(ctx, shopID)
	if err != nil {
		return botError(err, fmt.Sprintf("Shop %d", shopID))
	}
	items, err := b.shops.Menu(ctx, shopID)
	if err != nil {
		return botError(err, fmt.Sprintf("Shop %d", shopID))
	}
	if len(items) == 0 {
		return fmt.Sprintf("%s has no menu yet.", shop.Name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Menu of %s:", shop.Name)
	for _, item := range items {
		if !item.Available {
			continue
		}
		fmt.Fprintf(&sb, "\n#%d %s: %d", item.ID, item.Name, item.Price)
	}
	return sb.String()
}

func (b *BotUseCase) order(ctx context.Context, msg model.InboundMessage, args string) string {
	head := strings.Fields(args)
	if len(head) < 2 {
		return botHelp
	}
	shopID, err := strconv.ParseInt(head[0], 10, 64)
	if err != nil {
		return botHelp
	}

	items, ok := parseBotItems(strings.TrimSpace(strings.TrimPrefix(args, head[0])))
	if !ok {
		return botHelp
	}

	name := strings.TrimSpace(msg.Name)
	if name == "" {
		name = msg.From
	}

	_, err = b.orders.Create(ctx, model.NewOrder{
		ShopID:       shopID,
		CustomerName: name,
		Phone:        msg.From,
		Items:        items,
	})
	if err != nil {
		return botError(err, fmt.Sprintf("Shop %d", shopID))
	}
	return ""
}

func (b *BotUseCase) status(ctx context.Context, orderID string) string {
	order, err := b.orders.Get(ctx, orderID)
	if err != nil {
		return botError(err, "Order "+orderID)
	}
	return fmt.Sprintf("Order #%d (%s) is %s.", order.SequenceNumber, order.ID, order.Status.Label())
}

// parseBotItems reads "<qty> <item>" pairs separated by commas. "#<id>" refers to a menu id.
func parseBotItems(raw string) ([]model.RequestedItem, bool) {
	var items []model.RequestedItem
	for _, part := range strings.Split(raw, ",") {
		fields := strings.Fields(part)
		if len(fields) < 2 {
			return nil, false
		}
		qty, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil || qty <= 0 {
			return nil, false
		}
		name := strings.Join(fields[1:], " ")
		item := model.RequestedItem{Qty: qty, Name: name}
		if strings.HasPrefix(name, "#") {
			if id, err := strconv.ParseInt(name[1:], 10, 64); err == nil {
				item = model.RequestedItem{Qty: qty, ItemID: id}
			}
		}
		items = append(items, item)
	}
	return items, len(items) > 0
}

func botError(err error, subject string) string {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return subject + " not found."
	case errors.Is(err, domainErrors.ErrEmptyOrder), errors.Is(err, domainErrors.ErrInvalidOrder):
		return "Sorry, that order could not be placed: " + err.Error()
	default:
		return "Sorry, something went wrong. Please try again later."
	}
}
