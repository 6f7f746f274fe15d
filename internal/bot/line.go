package bot

import (
	"context"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// LineClient adapts *linebot.Client to the replier interface.
type LineClient struct {
	api *linebot.Client
}

func NewLineClient(api *linebot.Client) *LineClient { return &LineClient{api: api} }

func (c *LineClient) Reply(ctx context.Context, token string, msgs ...linebot.SendingMessage) error {
	_, err := c.api.ReplyMessage(token, msgs...).WithContext(ctx).Do()
	return err
}

func (c *LineClient) Push(ctx context.Context, to string, msgs ...linebot.SendingMessage) error {
	_, err := c.api.PushMessage(to, msgs...).WithContext(ctx).Do()
	return err
}
