package ui_config

type Config struct { //nolint:maligned
	Front struct {
		MsgSelect           string `hcl:"msg_select"`
		MsgBalance          string `hcl:"msg_balance"`
		MsgOutOfStock       string `hcl:"msg_out_of_stock"`
		MsgInvalidSelection string `hcl:"msg_invalid_selection"`
		MsgInvalidNumber    string `hcl:"msg_invalid_number"`

		MsgQuantity         string `hcl:"msg_quantity"`
		MsgQuantityPositive string `hcl:"msg_quantity_positive"`
		MsgQuantityStock    string `hcl:"msg_quantity_stock"`

		MsgDeposit         string `hcl:"msg_deposit"`
		MsgDepositPositive string `hcl:"msg_deposit_positive"`
		MsgDepositShort    string `hcl:"msg_deposit_short"`
		MsgDepositAtLeast  string `hcl:"msg_deposit_at_least"`

		MsgChange      string `hcl:"msg_change"`
		MsgThanks      string `hcl:"msg_thanks"`
		MsgCancelled   string `hcl:"msg_cancelled"`
		MsgConfirmExit string `hcl:"msg_confirm_exit"`
		MsgGoodbye     string `hcl:"msg_goodbye"`
	} `hcl:"front"`

	Payment struct {
		// nil = not configured, see state.Config.normalize
		XXX_MaxAttempts     *int  `hcl:"max_attempts"`
		XXX_PromptRemaining *bool `hcl:"prompt_remaining"`

		// 0 = unlimited
		MaxAttempts     int  `hcl:"-"`
		PromptRemaining bool `hcl:"-"`
	} `hcl:"payment"`

	XXX_ConfirmExit *bool `hcl:"confirm_exit"`
	ConfirmExit     bool  `hcl:"-"`
}

const (
	DefaultMaxAttempts     = 2
	DefaultPromptRemaining = true
	DefaultConfirmExit     = true
)
