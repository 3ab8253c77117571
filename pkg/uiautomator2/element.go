package uiautomator2

import (
	"encoding/json"
	"fmt"
)

// Element represents a UI element on the device.
type Element struct {
	id     string
	client *Client
}

// ID returns the element ID.
func (e *Element) ID() string {
	return e.id
}

// ActiveElement returns the currently focused element.
func (c *Client) ActiveElement() (*Element, error) {
	data, err := c.request("GET", c.sessionPath("/element/active"), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Value struct {
			ELEMENT string `json:"ELEMENT"`
		} `json:"value"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}

	if resp.Value.ELEMENT == "" {
		return nil, fmt.Errorf("no active element")
	}

	return &Element{id: resp.Value.ELEMENT, client: c}, nil
}

// Click taps the element.
func (e *Element) Click() error {
	_, err := e.client.request("POST", e.client.sessionPath("/element/"+e.id+"/click"), nil)
	return err
}

// Clear clears the element's text.
func (e *Element) Clear() error {
	_, err := e.client.request("POST", e.client.sessionPath("/element/"+e.id+"/clear"), nil)
	return err
}

// SendKeys types text into the element.
func (e *Element) SendKeys(text string) error {
	req := InputTextRequest{Text: text}
	_, err := e.client.request("POST", e.client.sessionPath("/element/"+e.id+"/value"), req)
	return err
}

// Text returns the element's text content.
func (e *Element) Text() (string, error) {
	data, err := e.client.request("GET", e.client.sessionPath("/element/"+e.id+"/text"), nil)
	if err != nil {
		return "", err
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}

	text, _ := resp.Value.(string)
	return text, nil
}
